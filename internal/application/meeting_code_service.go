package application

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/example/club-attendance/internal/persistence"
)

const (
	meetingCodePrefix   = "TM"
	meetingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	meetingCodeSuffix   = 4

	// DefaultCodeWindow is the validity window of a regenerated meeting code.
	DefaultCodeWindow = 2 * time.Hour
)

// CodeMetrics receives meeting code lifecycle events.
type CodeMetrics interface {
	ObserveCodeRegenerated()
}

// MeetingCodeOptions configures a MeetingCodeService.
type MeetingCodeOptions struct {
	// Location is the timezone stored timestamps are written and parsed in.
	Location *time.Location
	// Window is how long a regenerated code stays valid.
	Window time.Duration
	// CacheTTL is the lease on the in-process copy of the stored record. Zero disables it.
	CacheTTL time.Duration
	// Random is the entropy source for code generation. Defaults to crypto/rand.
	Random  io.Reader
	Metrics CodeMetrics
	Logger  *slog.Logger
}

// MeetingCodeService reads, verifies and regenerates the single active meeting code.
type MeetingCodeService struct {
	store    persistence.TabularStore
	now      func() time.Time
	location *time.Location
	window   time.Duration
	random   io.Reader
	cache    *codeCache
	metrics  CodeMetrics
	logger   *slog.Logger
}

// NewMeetingCodeService constructs a meeting code service.
func NewMeetingCodeService(store persistence.TabularStore, now func() time.Time, opts MeetingCodeOptions) *MeetingCodeService {
	if now == nil {
		now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Window <= 0 {
		opts.Window = DefaultCodeWindow
	}
	if opts.Random == nil {
		opts.Random = rand.Reader
	}
	return &MeetingCodeService{
		store:    store,
		now:      now,
		location: opts.Location,
		window:   opts.Window,
		random:   opts.Random,
		cache:    newCodeCache(opts.CacheTTL, now),
		metrics:  opts.Metrics,
		logger:   defaultLogger(opts.Logger),
	}
}

func (s *MeetingCodeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "MeetingCodeService", operation, attrs...)
}

// ActiveCode returns the stored code when one exists and the current time is
// at or before its expiry. A missing or malformed record yields ok=false.
func (s *MeetingCodeService) ActiveCode(ctx context.Context) (MeetingCode, bool, error) {
	if s == nil {
		return MeetingCode{}, false, fmt.Errorf("MeetingCodeService is nil")
	}
	stored, err := s.load(ctx)
	if err != nil {
		return MeetingCode{}, false, err
	}
	if !stored.present || !stored.code.ValidAt(s.now().In(s.location)) {
		return MeetingCode{}, false, nil
	}
	return stored.code, true, nil
}

// Verify checks a submitted code against the active code. The comparison is
// exact: surrounding whitespace or a case difference is a mismatch.
func (s *MeetingCodeService) Verify(ctx context.Context, code string) (MeetingCode, error) {
	active, ok, err := s.ActiveCode(ctx)
	if err != nil {
		return MeetingCode{}, err
	}
	if !ok {
		return MeetingCode{}, ErrNoActiveCode
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(active.Code)) != 1 {
		return MeetingCode{}, ErrInvalidCode
	}
	return active, nil
}

// Regenerate replaces the stored code with a fresh one. Administrators only.
func (s *MeetingCodeService) Regenerate(ctx context.Context, principal Principal) (code MeetingCode, err error) {
	if s == nil {
		err = fmt.Errorf("MeetingCodeService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Regenerate", "principal_id", principal.Subject)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to regenerate meeting code", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("expires_at", code.ExpiresAt).InfoContext(ctx, "meeting code regenerated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var value string
	value, err = GenerateMeetingCode(s.random)
	if err != nil {
		return
	}

	generatedAt := s.now().In(s.location).Truncate(time.Second)
	code = MeetingCode{Code: value, ExpiresAt: generatedAt.Add(s.window)}

	rows := [][]string{
		{persistence.HeaderMeetingCode, persistence.HeaderCodeExpiry},
		{code.Code, code.ExpiresAt.Format(TimestampLayout)},
	}
	s.cache.Invalidate()
	if err = s.store.ReplaceRows(ctx, persistence.TableMeetingCode, rows); err != nil {
		err = fmt.Errorf("replace meeting code: %w", err)
		return
	}
	s.cache.Store(storedCode{code: code, present: true})

	if s.metrics != nil {
		s.metrics.ObserveCodeRegenerated()
	}
	return
}

func (s *MeetingCodeService) load(ctx context.Context) (storedCode, error) {
	if cached, ok := s.cache.Get(); ok {
		return cached, nil
	}

	rows, err := s.store.ReadRows(ctx, persistence.TableMeetingCode)
	if err != nil {
		return storedCode{}, fmt.Errorf("read meeting code: %w", err)
	}
	stored := s.parse(ctx, rows)
	s.cache.Store(stored)
	return stored, nil
}

func (s *MeetingCodeService) parse(ctx context.Context, rows [][]string) storedCode {
	records := persistence.Records(rows)
	if len(records) == 0 {
		return storedCode{}
	}
	record := records[0]
	value := normalizeField(record[persistence.HeaderMeetingCode])
	if value == "" {
		return storedCode{}
	}
	expiry, err := time.ParseInLocation(TimestampLayout, normalizeField(record[persistence.HeaderCodeExpiry]), s.location)
	if err != nil {
		s.loggerWith(ctx, "ActiveCode").WarnContext(ctx, "stored meeting code has malformed expiry", "error", err)
		return storedCode{}
	}
	return storedCode{code: MeetingCode{Code: value, ExpiresAt: expiry}, present: true}
}

// GenerateMeetingCode returns "TM" followed by four characters drawn uniformly
// from uppercase letters and digits.
func GenerateMeetingCode(random io.Reader) (string, error) {
	if random == nil {
		random = rand.Reader
	}
	limit := big.NewInt(int64(len(meetingCodeAlphabet)))
	buf := make([]byte, 0, len(meetingCodePrefix)+meetingCodeSuffix)
	buf = append(buf, meetingCodePrefix...)
	for i := 0; i < meetingCodeSuffix; i++ {
		n, err := rand.Int(random, limit)
		if err != nil {
			return "", fmt.Errorf("generate meeting code: %w", err)
		}
		buf = append(buf, meetingCodeAlphabet[n.Int64()])
	}
	return string(buf), nil
}
