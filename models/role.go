package models

import (
	"errors"
	"strings"
)

// Role is the closed set of actor roles. Roles are normalized to upper
// case at parse time so handlers never compare raw strings.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", ErrUnknownRole
}

// IsStaff reports whether the role can act on appointments on behalf of
// the clinic.
func (r Role) IsStaff() bool {
	return r == RoleDoctor || r == RoleAdmin
}

func (r Role) CanApprove() bool    { return r.IsStaff() }
func (r Role) CanDecline() bool    { return r.IsStaff() }
func (r Role) CanComplete() bool   { return r.IsStaff() }
func (r Role) CanReschedule() bool { return r.IsStaff() }

// CanCancel allows staff always, and the patient only for their own
// appointment.
func (r Role) CanCancel(owner bool) bool {
	if r.IsStaff() {
		return true
	}
	return r == RolePatient && owner
}

// CanManageSchedule allows the owning doctor or an admin to mutate a
// doctor's schedule.
func (r Role) CanManageSchedule(owner bool) bool {
	if r == RoleAdmin {
		return true
	}
	return r == RoleDoctor && owner
}
