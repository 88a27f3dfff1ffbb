package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/club-attendance/internal/persistence"
)

const matrixWarning = "attendance recorded, but the member attendance sheet could not be updated"
const guestWarning = "attendance recorded, but the guest log could not be updated"

// CodeVerifier checks submitted meeting codes.
type CodeVerifier interface {
	Verify(ctx context.Context, code string) (MeetingCode, error)
}

// CheckinMetrics receives check-in outcomes.
type CheckinMetrics interface {
	ObserveCheckin(role, outcome string)
}

// CheckinService records member and guest attendance.
type CheckinService struct {
	store    persistence.TabularStore
	codes    CodeVerifier
	matrix   *MatrixWriter
	now      func() time.Time
	location *time.Location
	metrics  CheckinMetrics
	logger   *slog.Logger
}

// NewCheckinService constructs a check-in service.
func NewCheckinService(store persistence.TabularStore, codes CodeVerifier, matrix *MatrixWriter, now func() time.Time, location *time.Location) *CheckinService {
	return NewCheckinServiceWithLogger(store, codes, matrix, now, location, nil, nil)
}

// NewCheckinServiceWithLogger constructs a check-in service with metrics and a specified logger.
func NewCheckinServiceWithLogger(store persistence.TabularStore, codes CodeVerifier, matrix *MatrixWriter, now func() time.Time, location *time.Location, metrics CheckinMetrics, logger *slog.Logger) *CheckinService {
	if matrix == nil {
		matrix = NewMatrixWriter(store)
	}
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &CheckinService{
		store:    store,
		codes:    codes,
		matrix:   matrix,
		now:      now,
		location: location,
		metrics:  metrics,
		logger:   defaultLogger(logger),
	}
}

func (s *CheckinService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CheckinService", operation, attrs...)
}

// CheckInMember validates the code and phone, appends an attendance row and
// marks the member present in the attendance matrix.
func (s *CheckinService) CheckInMember(ctx context.Context, params MemberCheckinParams) (result CheckinResult, err error) {
	if s == nil {
		err = fmt.Errorf("CheckinService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CheckInMember")
	defer func() {
		s.observe(RoleMember, result, err)
		if err != nil {
			logger.WarnContext(ctx, "member check-in rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		if result.Warning != "" {
			logger.WarnContext(ctx, "member check-in partially recorded", "member", result.Event.Name)
			return
		}
		logger.With("member", result.Event.Name).InfoContext(ctx, "member checked in")
	}()

	var active MeetingCode
	if active, err = s.codes.Verify(ctx, params.Code); err != nil {
		return
	}

	if normalizeField(params.Phone) == "" {
		vErr := &ValidationError{}
		vErr.add("phone", "phone is required")
		err = vErr
		return
	}

	var member Member
	if member, err = s.findMember(ctx, params.Phone); err != nil {
		return
	}

	now := s.now().In(s.location)
	result.Event = AttendanceEvent{
		Timestamp: now,
		Role:      RoleMember,
		Name:      member.Name,
		Phone:     member.Phone,
		Code:      active.Code,
	}
	if err = s.store.AppendRow(ctx, persistence.TableAttendance, result.Event.Row()); err != nil {
		err = fmt.Errorf("append attendance: %w", err)
		return
	}

	if mErr := s.matrix.MarkPresent(ctx, member, now.Format(DateLayout)); mErr != nil {
		logger.ErrorContext(ctx, "failed to update attendance matrix", "error", mErr, "error_kind", ErrorKind(mErr))
		result.Warning = matrixWarning
	}
	return
}

// CheckInGuest validates the code and guest details, then appends an
// attendance row and a guest row sharing one timestamp.
func (s *CheckinService) CheckInGuest(ctx context.Context, params GuestCheckinParams) (result CheckinResult, err error) {
	if s == nil {
		err = fmt.Errorf("CheckinService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CheckInGuest")
	defer func() {
		s.observe(RoleGuest, result, err)
		if err != nil {
			logger.WarnContext(ctx, "guest check-in rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("guest", result.Event.Name).InfoContext(ctx, "guest checked in")
	}()

	var active MeetingCode
	if active, err = s.codes.Verify(ctx, params.Code); err != nil {
		return
	}

	name := normalizeField(params.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		err = vErr
		return
	}
	email := normalizeField(params.Email)
	if email == "" {
		email = AbsentEmail
	}
	phone := normalizeField(params.Phone)

	now := s.now().In(s.location)
	result.Event = AttendanceEvent{Timestamp: now, Role: RoleGuest, Name: name, Phone: phone, Code: active.Code}
	guest := GuestRecord{Timestamp: now, Name: name, Email: email, Phone: phone, Code: active.Code}

	if err = s.store.AppendRow(ctx, persistence.TableAttendance, result.Event.Row()); err != nil {
		err = fmt.Errorf("append attendance: %w", err)
		return
	}
	if gErr := s.store.AppendRow(ctx, persistence.TableGuest, guest.Row()); gErr != nil {
		logger.ErrorContext(ctx, "failed to append guest record", "error", gErr, "error_kind", ErrorKind(gErr))
		result.Warning = guestWarning
		return
	}
	result.Guest = &guest
	return
}

func (s *CheckinService) findMember(ctx context.Context, phone string) (Member, error) {
	rows, err := s.store.ReadRows(ctx, persistence.TableMembers)
	if err != nil {
		return Member{}, fmt.Errorf("read members: %w", err)
	}
	for _, record := range persistence.Records(rows) {
		if record[persistence.HeaderMemberPhone] == phone {
			return Member{
				Name:  normalizeField(record[persistence.HeaderMemberName]),
				Phone: phone,
			}, nil
		}
	}
	return Member{}, ErrMemberNotFound
}

func (s *CheckinService) observe(role Role, result CheckinResult, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case err != nil:
		outcome = ErrorKind(err)
	case result.Warning != "":
		outcome = "degraded"
	}
	s.metrics.ObserveCheckin(string(role), outcome)
}
