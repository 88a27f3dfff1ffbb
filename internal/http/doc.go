// Package http provides HTTP handlers and middleware for the attendance API.
//
// The router exposes the following endpoints:
//   - GET /healthz: liveness probe.
//   - GET /metrics: Prometheus exposition, when a metrics handler is configured.
//   - GET /meeting-code/status: {"active","expires_at"} without revealing the code.
//   - POST /checkin/member: body {"phone","code"}. Responds 201 with
//     {"message","event","warning"}; "warning" is present when the attendance log
//     was written but the member sheet could not be updated.
//   - POST /checkin/guest: body {"name","email","phone","code"}; same response shape.
//   - POST /flow: body {"state_token","event"}. Advances the check-in screen flow and
//     returns {"step","role","state_token"}. The state token is opaque and signed;
//     an untrusted token is 400 and a disallowed event is 409.
//   - POST /admin/sessions: body {"password"}. Issues an admin token returned in the
//     body and as the `admin_token` cookie. Attempts are rate limited per client.
//   - GET /admin/meeting-code, POST /admin/meeting-code: read or regenerate the
//     active code. Require an admin token via `Authorization: Bearer` or cookie.
//
// Check-in errors carry an `error_code` of INVALID_MEETING_CODE,
// NO_ACTIVE_MEETING_CODE or MEMBER_NOT_FOUND. Validation failures respond 422
// with per-field messages.
package http
