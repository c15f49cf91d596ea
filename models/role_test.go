package models

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		input   string
		role    Role
		wantErr bool
	}{
		{input: "PATIENT", role: RolePatient},
		{input: "patient", role: RolePatient},
		{input: "  Doctor ", role: RoleDoctor},
		{input: "ADMIN", role: RoleAdmin},
		{input: "admin", role: RoleAdmin},
		{input: "", wantErr: true},
		{input: "nurse", wantErr: true},
		{input: "PATIENTS", wantErr: true},
	}

	for _, c := range cases {
		role, err := ParseRole(c.input)
		if c.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q, got role %q", c.input, role)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", c.input, err)
		}
		if role != c.role {
			t.Fatalf("expected %q for %q, got %q", c.role, c.input, role)
		}
	}
}

func TestRolePermissions(t *testing.T) {
	if !RoleDoctor.CanApprove() || !RoleAdmin.CanApprove() {
		t.Fatal("staff must be able to approve")
	}
	if RolePatient.CanApprove() {
		t.Fatal("patients must not approve")
	}
	if RolePatient.CanDecline() || RolePatient.CanComplete() || RolePatient.CanReschedule() {
		t.Fatal("patients must not act on appointments as staff")
	}
}

func TestRoleCanCancel(t *testing.T) {
	cases := []struct {
		role  Role
		owner bool
		want  bool
	}{
		{role: RoleAdmin, owner: false, want: true},
		{role: RoleDoctor, owner: false, want: true},
		{role: RolePatient, owner: true, want: true},
		{role: RolePatient, owner: false, want: false},
		{role: Role(""), owner: true, want: false},
	}

	for _, c := range cases {
		if got := c.role.CanCancel(c.owner); got != c.want {
			t.Fatalf("CanCancel(%v) for role %q: expected %v, got %v", c.owner, c.role, c.want, got)
		}
	}
}

func TestRoleCanManageSchedule(t *testing.T) {
	cases := []struct {
		role  Role
		owner bool
		want  bool
	}{
		{role: RoleAdmin, owner: false, want: true},
		{role: RoleDoctor, owner: true, want: true},
		{role: RoleDoctor, owner: false, want: false},
		{role: RolePatient, owner: true, want: false},
	}

	for _, c := range cases {
		if got := c.role.CanManageSchedule(c.owner); got != c.want {
			t.Fatalf("CanManageSchedule(%v) for role %q: expected %v, got %v", c.owner, c.role, c.want, got)
		}
	}
}
