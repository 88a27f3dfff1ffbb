package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Step is a screen of the check-in flow.
type Step string

const (
	StepHome        Step = "home"
	StepMemberLogin Step = "member_login"
	StepGuestLogin  Step = "guest_login"
	StepSuccess     Step = "success"
)

// FlowEvent is a user action driving the check-in flow.
type FlowEvent string

const (
	EventChooseMember FlowEvent = "choose_member"
	EventChooseGuest  FlowEvent = "choose_guest"
	EventSubmitted    FlowEvent = "submitted"
	EventBack         FlowEvent = "back"
	EventReset        FlowEvent = "reset"
)

// Flow is the per-visitor state of the check-in screens. It is a value: each
// request carries its own snapshot.
type Flow struct {
	Step Step `json:"step"`
	Role Role `json:"role,omitempty"`
}

// NewFlow returns a flow positioned on the home step.
func NewFlow() Flow {
	return Flow{Step: StepHome}
}

// Apply returns the flow that results from ev, or ErrInvalidTransition.
func (f Flow) Apply(ev FlowEvent) (Flow, error) {
	if ev == EventReset {
		return NewFlow(), nil
	}

	switch f.Step {
	case StepHome, StepMemberLogin, StepGuestLogin:
		switch ev {
		case EventChooseMember:
			return Flow{Step: StepMemberLogin, Role: RoleMember}, nil
		case EventChooseGuest:
			return Flow{Step: StepGuestLogin, Role: RoleGuest}, nil
		}
		if f.Step == StepHome {
			break
		}
		switch ev {
		case EventSubmitted:
			return Flow{Step: StepSuccess, Role: f.Role}, nil
		case EventBack:
			return NewFlow(), nil
		}
	case StepSuccess:
		if ev == EventBack {
			return NewFlow(), nil
		}
	}
	return f, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, f.Step)
}

// Valid reports whether the flow holds a known step.
func (f Flow) Valid() bool {
	switch f.Step {
	case StepHome, StepSuccess:
		return true
	case StepMemberLogin:
		return f.Role == RoleMember
	case StepGuestLogin:
		return f.Role == RoleGuest
	}
	return false
}

const flowAudience = "flow"

type flowClaims struct {
	Flow
	jwt.RegisteredClaims
}

// FlowCodec signs flow snapshots into opaque state tokens.
type FlowCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewFlowCodec constructs a codec. Tokens expire after ttl.
func NewFlowCodec(key []byte, ttl time.Duration, now func() time.Time) *FlowCodec {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &FlowCodec{key: key, ttl: ttl, now: now}
}

// Encode signs f into a state token.
func (c *FlowCodec) Encode(f Flow) (string, error) {
	issued := c.now()
	claims := flowClaims{
		Flow: f,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{flowAudience},
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(c.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign flow state: %w", err)
	}
	return token, nil
}

// Decode verifies a state token. An empty token decodes to a new flow; an
// expired one restarts at home.
func (c *FlowCodec) Decode(token string) (Flow, error) {
	if token == "" {
		return NewFlow(), nil
	}
	claims := &flowClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(flowAudience),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return NewFlow(), nil
		}
		return Flow{}, fmt.Errorf("%w: %v", ErrInvalidFlowState, err)
	}
	if !claims.Flow.Valid() {
		return Flow{}, fmt.Errorf("%w: unknown step %q", ErrInvalidFlowState, claims.Step)
	}
	return claims.Flow, nil
}
