package identity

import "testing"

func TestNormalizeRoleFoldsCase(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"parent", RoleParent},
		{"PARENT", RoleParent},
		{"  Teacher ", RoleTeacher},
		{"human_resources", RoleHumanResources},
		{"admin", RoleAdmin},
		{"student", RoleStudent},
	}
	for _, tc := range cases {
		got, err := NormalizeRole(tc.raw)
		if err != nil {
			t.Fatalf("NormalizeRole(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeRole(%q): want=%v got=%v", tc.raw, tc.want, got)
		}
	}
}

func TestNormalizeRoleRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "caretaker", "PARENTS", "superadmin"} {
		if _, err := NormalizeRole(raw); err == nil {
			t.Fatalf("NormalizeRole(%q): want error, got nil", raw)
		}
	}
}

func TestNormalizeStatusDefaultsToActive(t *testing.T) {
	got, err := NormalizeStatus("")
	if err != nil {
		t.Fatalf("NormalizeStatus(\"\"): %v", err)
	}
	if got != StatusActive {
		t.Fatalf("NormalizeStatus(\"\"): want=%v got=%v", StatusActive, got)
	}
	if _, err := NormalizeStatus("frozen"); err == nil {
		t.Fatalf("NormalizeStatus(\"frozen\"): want error, got nil")
	}
}
