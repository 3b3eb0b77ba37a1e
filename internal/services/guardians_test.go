package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	guardiandom "github.com/rskala/campusbridge-backend/internal/domain/guardian"
	"github.com/rskala/campusbridge-backend/internal/pkg/apperr"
	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
)

func TestLinkStudentUpsertsInsteadOfDuplicating(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	g := h.seedGuardian(t, "anna@family.test", "Anna Janssen")
	st := h.seedStudent(t, "mira@school.test", "Mira Janssen", "")

	first, err := h.guardianSvc.LinkStudent(ctx, g.ID, st.ID, LinkStudentInput{Relationship: "mother"})
	if err != nil {
		t.Fatalf("first LinkStudent: %v", err)
	}
	second, err := h.guardianSvc.LinkStudent(ctx, g.ID, st.ID, LinkStudentInput{Relationship: "stepmother", IsPrimary: true})
	if err != nil {
		t.Fatalf("second LinkStudent: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("pair duplicated: want same link id, got %v and %v", first.ID, second.ID)
	}
	if second.Relationship != "stepmother" {
		t.Fatalf("relationship: want=stepmother got=%q", second.Relationship)
	}
	if !second.IsPrimary {
		t.Fatalf("is_primary: want=true got=false")
	}
	if len(h.store.links) != 1 {
		t.Fatalf("link rows: want=1 got=%d", len(h.store.links))
	}
}

func TestLinkStudentOmittedRelationshipPreserved(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	g := h.seedGuardian(t, "anna@family.test", "Anna Janssen")
	st := h.seedStudent(t, "mira@school.test", "Mira Janssen", "")

	if _, err := h.guardianSvc.LinkStudent(ctx, g.ID, st.ID, LinkStudentInput{Relationship: "mother", IsPrimary: true}); err != nil {
		t.Fatalf("first LinkStudent: %v", err)
	}

	// Re-link without a relationship, e.g. to refresh the status only.
	relinked, err := h.guardianSvc.LinkStudent(ctx, g.ID, st.ID, LinkStudentInput{Status: "active"})
	if err != nil {
		t.Fatalf("second LinkStudent: %v", err)
	}
	if relinked.Relationship != "mother" {
		t.Fatalf("relationship: want preserved mother, got %q", relinked.Relationship)
	}
}

func TestLinkStudentUnknownPartiesNotFound(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	g := h.seedGuardian(t, "anna@family.test", "Anna Janssen")
	st := h.seedStudent(t, "mira@school.test", "Mira Janssen", "")

	if _, err := h.guardianSvc.LinkStudent(ctx, g.ID, uuid.New(), LinkStudentInput{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown student: want ErrNotFound, got %v", err)
	}
	if _, err := h.guardianSvc.LinkStudent(ctx, uuid.New(), st.ID, LinkStudentInput{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown guardian: want ErrNotFound, got %v", err)
	}
	if len(h.store.links) != 0 {
		t.Fatalf("link rows: want=0 got=%d", len(h.store.links))
	}
}

func TestUnlinkStudentIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	g := h.seedGuardian(t, "anna@family.test", "Anna Janssen")
	st := h.seedStudent(t, "mira@school.test", "Mira Janssen", "")
	if _, err := h.guardianSvc.LinkStudent(ctx, g.ID, st.ID, LinkStudentInput{Relationship: "mother"}); err != nil {
		t.Fatalf("LinkStudent: %v", err)
	}

	if err := h.guardianSvc.UnlinkStudent(ctx, g.ID, st.ID); err != nil {
		t.Fatalf("first UnlinkStudent: %v", err)
	}
	link, _ := h.links.GetByPair(dbc, g.ID, st.ID)
	if link.Status != guardiandom.LinkRevoked || link.RevokedAt == nil {
		t.Fatalf("after unlink: want revoked with stamp, got status=%v revoked_at=%v", link.Status, link.RevokedAt)
	}
	first := *link.RevokedAt

	if err := h.guardianSvc.UnlinkStudent(ctx, g.ID, st.ID); err != nil {
		t.Fatalf("second UnlinkStudent: %v", err)
	}
	link, _ = h.links.GetByPair(dbc, g.ID, st.ID)
	if !link.RevokedAt.Equal(first) {
		t.Fatalf("revoked_at moved on repeat unlink: want=%v got=%v", first, *link.RevokedAt)
	}
}

func TestUnlinkStudentMissingPairNotFound(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	g := h.seedGuardian(t, "anna@family.test", "Anna Janssen")
	st := h.seedStudent(t, "mira@school.test", "Mira Janssen", "")

	if err := h.guardianSvc.UnlinkStudent(ctx, g.ID, st.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("never linked: want ErrNotFound, got %v", err)
	}
}

func TestRelinkAfterRevokeClearsRevokedAt(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	g := h.seedGuardian(t, "anna@family.test", "Anna Janssen")
	st := h.seedStudent(t, "mira@school.test", "Mira Janssen", "")
	if _, err := h.guardianSvc.LinkStudent(ctx, g.ID, st.ID, LinkStudentInput{Relationship: "mother"}); err != nil {
		t.Fatalf("LinkStudent: %v", err)
	}
	if err := h.guardianSvc.UnlinkStudent(ctx, g.ID, st.ID); err != nil {
		t.Fatalf("UnlinkStudent: %v", err)
	}

	relinked, err := h.guardianSvc.LinkStudent(ctx, g.ID, st.ID, LinkStudentInput{Relationship: "mother"})
	if err != nil {
		t.Fatalf("relink: %v", err)
	}
	if relinked.Status != guardiandom.LinkActive {
		t.Fatalf("relink status: want=%v got=%v", guardiandom.LinkActive, relinked.Status)
	}
	if relinked.RevokedAt != nil {
		t.Fatalf("relink revoked_at: want=nil got=%v", relinked.RevokedAt)
	}

	link, _ := h.links.GetByPair(dbc, g.ID, st.ID)
	if link.RevokedAt != nil {
		t.Fatalf("stored revoked_at: want=nil got=%v", link.RevokedAt)
	}
}

func TestUpdateLinkInvalidStatusRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	g := h.seedGuardian(t, "anna@family.test", "Anna Janssen")
	st := h.seedStudent(t, "mira@school.test", "Mira Janssen", "")
	if _, err := h.guardianSvc.LinkStudent(ctx, g.ID, st.ID, LinkStudentInput{}); err != nil {
		t.Fatalf("LinkStudent: %v", err)
	}

	bad := "suspended"
	if _, err := h.guardianSvc.UpdateLink(ctx, g.ID, st.ID, UpdateLinkInput{Status: &bad}); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("bad status: want ErrInvalidState, got %v", err)
	}
}

func TestStudentDeleteRevokesLinksFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	g := h.seedGuardian(t, "anna@family.test", "Anna Janssen")
	st := h.seedStudent(t, "mira@school.test", "Mira Janssen", "")
	if _, err := h.guardianSvc.LinkStudent(ctx, g.ID, st.ID, LinkStudentInput{}); err != nil {
		t.Fatalf("LinkStudent: %v", err)
	}

	if err := h.studentSvc.DeleteProfile(ctx, st.ID); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}

	if got, _ := h.students.GetByID(dbc, st.ID); got != nil {
		t.Fatalf("student profile still present after delete")
	}
	link, _ := h.links.GetByPair(dbc, g.ID, st.ID)
	if link == nil || link.Status != guardiandom.LinkRevoked {
		t.Fatalf("link after profile delete: want revoked, got %+v", link)
	}
}
