package moderation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
)

type stubBanRepo struct {
	bans map[string]*models.BannedUniqueID
	err  error
}

func newStubBanRepo() *stubBanRepo {
	return &stubBanRepo{bans: make(map[string]*models.BannedUniqueID)}
}

func (s *stubBanRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubBanRepo) Create(ctx context.Context, ban *models.BannedUniqueID) error {
	if s.err != nil {
		return s.err
	}
	if ban.ID == uuid.Nil {
		ban.ID = uuid.New()
	}
	s.bans[ban.UniqueID] = ban
	return nil
}

func (s *stubBanRepo) FindByUniqueID(ctx context.Context, uniqueID string) (*models.BannedUniqueID, error) {
	if ban, ok := s.bans[uniqueID]; ok {
		return ban, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBanRepo) DeleteByUniqueID(ctx context.Context, uniqueID string) (bool, error) {
	if _, ok := s.bans[uniqueID]; !ok {
		return false, nil
	}
	delete(s.bans, uniqueID)
	return true, nil
}

func (s *stubBanRepo) ListAll(ctx context.Context) ([]models.BannedUniqueID, error) {
	out := make([]models.BannedUniqueID, 0, len(s.bans))
	for _, ban := range s.bans {
		out = append(out, *ban)
	}
	return out, nil
}

type recordingAudit struct {
	entries []audit.Entry
}

func (r *recordingAudit) Record(ctx context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAudit) LogChange(ctx context.Context, entry audit.Entry) {
	r.entries = append(r.entries, entry)
}

func (r *recordingAudit) List(ctx context.Context, params audit.ListParams) (*audit.ListResult, error) {
	return &audit.ListResult{}, nil
}

func testActor() audit.Actor {
	return audit.Actor{ID: uuid.New(), Username: "sergio"}
}

func TestBanThenIsBanned(t *testing.T) {
	repo := newStubBanRepo()
	auditSvc := &recordingAudit{}
	svc, err := NewService(repo, auditSvc)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	ban, err := svc.Ban(context.Background(), testActor(), "12345", "Tentative d'arnaque")
	if err != nil {
		t.Fatalf("Ban returned error: %v", err)
	}
	if ban.BannedBy != "sergio" || ban.Reason == nil || *ban.Reason != "Tentative d'arnaque" {
		t.Fatalf("unexpected ban row: %+v", ban)
	}

	banned, err := svc.IsBanned(context.Background(), "12345")
	if err != nil || !banned {
		t.Fatalf("expected banned=true, got %v %v", banned, err)
	}
	banned, err = svc.IsBanned(context.Background(), "54321")
	if err != nil || banned {
		t.Fatalf("expected banned=false, got %v %v", banned, err)
	}

	if len(auditSvc.entries) != 1 || auditSvc.entries[0].Action != enums.AuditActionBan {
		t.Fatalf("expected ban audit entry, got %+v", auditSvc.entries)
	}
}

func TestBanRejectsNonNumericID(t *testing.T) {
	svc, _ := NewService(newStubBanRepo(), &recordingAudit{})

	_, err := svc.Ban(context.Background(), testActor(), "abc123", "")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUnban(t *testing.T) {
	repo := newStubBanRepo()
	auditSvc := &recordingAudit{}
	svc, _ := NewService(repo, auditSvc)

	if _, err := svc.Ban(context.Background(), testActor(), "12345", ""); err != nil {
		t.Fatalf("Ban returned error: %v", err)
	}
	if err := svc.Unban(context.Background(), testActor(), "12345"); err != nil {
		t.Fatalf("Unban returned error: %v", err)
	}
	banned, _ := svc.IsBanned(context.Background(), "12345")
	if banned {
		t.Fatalf("expected unbanned")
	}

	err := svc.Unban(context.Background(), testActor(), "12345")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second unban, got %v", err)
	}

	if len(auditSvc.entries) != 2 || auditSvc.entries[1].Action != enums.AuditActionUnban {
		t.Fatalf("expected ban+unban audit entries, got %+v", auditSvc.entries)
	}
}
