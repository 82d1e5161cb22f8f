package announcements

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
)

type stubAnnouncementRepo struct {
	current *models.Announcement
}

func (s *stubAnnouncementRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubAnnouncementRepo) Find(ctx context.Context) (*models.Announcement, error) {
	if s.current == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.current
	return &copied, nil
}

func (s *stubAnnouncementRepo) DeleteAll(ctx context.Context) error {
	s.current = nil
	return nil
}

func (s *stubAnnouncementRepo) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == uuid.Nil {
		announcement.ID = uuid.New()
	}
	s.current = announcement
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
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

func TestGetWithoutAnnouncement(t *testing.T) {
	svc, err := NewService(&stubAnnouncementRepo{}, stubTxRunner{}, &recordingAudit{})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	announcement, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if announcement != nil {
		t.Fatalf("expected nil announcement, got %+v", announcement)
	}
}

func TestReplaceKeepsSingleton(t *testing.T) {
	repo := &stubAnnouncementRepo{}
	auditSvc := &recordingAudit{}
	svc, _ := NewService(repo, stubTxRunner{}, auditSvc)
	actor := audit.Actor{ID: uuid.New(), Username: "sergio"}
	ctx := context.Background()

	first, err := svc.Replace(ctx, actor, UpdateInput{Content: "Promo sur les sportives", Active: true})
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}

	second, err := svc.Replace(ctx, actor, UpdateInput{Content: "Fermé ce soir", Active: false})
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("replace must insert a fresh row")
	}
	if repo.current == nil || repo.current.Content != "Fermé ce soir" {
		t.Fatalf("singleton not replaced: %+v", repo.current)
	}

	entry := auditSvc.entries[len(auditSvc.entries)-1]
	if entry.Action != enums.AuditActionUpdate {
		t.Fatalf("expected update audit entry, got %+v", entry)
	}
	if change, ok := entry.Changes["Contenu"]; !ok || change.Old != "Promo sur les sportives" {
		t.Fatalf("content diff missing previous value: %+v", entry.Changes)
	}
}
