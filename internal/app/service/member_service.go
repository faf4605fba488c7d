package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"dsc_team/internal/common"
	"dsc_team/internal/domain/model"
	"dsc_team/internal/domain/repository"
	"dsc_team/internal/platform/queue"

	"github.com/google/uuid"
)

type MemberService struct {
	memberRepo repository.MemberRepository
	publisher  queue.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

func NewMemberService(memberRepo repository.MemberRepository, publisher queue.EventPublisher, logger *slog.Logger) *MemberService {
	if publisher == nil {
		publisher = queue.NewNopPublisher()
	}
	return &MemberService{
		memberRepo: memberRepo,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// CreateMemberRequest uses pointers so a missing field is distinguishable
// from a present one.
type CreateMemberRequest struct {
	Name        *string `json:"name"`
	Role        *string `json:"role"`
	Photo       *string `json:"photo"`
	Description *string `json:"description"`
}

func (r CreateMemberRequest) Validate() error {
	if r.Name == nil {
		return common.Errorf("%s: field required: %w", model.FieldName, common.ErrValidation)
	}
	if strings.TrimSpace(*r.Name) == "" {
		return common.Errorf("%s: must not be empty: %w", model.FieldName, common.ErrValidation)
	}
	if r.Role == nil {
		return common.Errorf("%s: field required: %w", model.FieldRole, common.ErrValidation)
	}
	if strings.TrimSpace(*r.Role) == "" {
		return common.Errorf("%s: must not be empty: %w", model.FieldRole, common.ErrValidation)
	}
	return nil
}

func (s *MemberService) CreateMember(ctx context.Context, req CreateMemberRequest) (*model.Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	member := model.NewMember(s.newID(), *req.Name, *req.Role, req.Photo, req.Description, s.now())
	if err := s.memberRepo.Insert(ctx, member); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "team member created", "id", member.ID)
	s.publish(ctx, model.MemberEvent{Type: model.MemberCreated, ID: member.ID, At: member.CreatedAt})
	return member, nil
}

func (s *MemberService) ListMembers(ctx context.Context) ([]model.Member, error) {
	return s.memberRepo.ListAll(ctx)
}

func (s *MemberService) GetMember(ctx context.Context, id string) (*model.Member, error) {
	return s.memberRepo.FindByID(ctx, id)
}

func (s *MemberService) UpdateMember(ctx context.Context, id string, patch model.MemberPatch) (*model.Member, error) {
	if err := patch.Validate(); err != nil {
		return nil, common.Errorf("%v: %w", err, common.ErrValidation)
	}

	member, err := s.memberRepo.Update(ctx, id, patch, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "team member updated", "id", id)
	s.publish(ctx, model.MemberEvent{Type: model.MemberUpdated, ID: id, Fields: suppliedFields(patch), At: member.UpdatedAt})
	return member, nil
}

func (s *MemberService) DeleteMember(ctx context.Context, id string) (string, error) {
	deleted, err := s.memberRepo.DeleteByID(ctx, id)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "team member deleted", "id", deleted)
	s.publish(ctx, model.MemberEvent{Type: model.MemberDeleted, ID: deleted, At: model.Timestamp(s.now())})
	return deleted, nil
}

// CheckStore reports whether the backing store answers.
func (s *MemberService) CheckStore(ctx context.Context) error {
	return s.memberRepo.Ping(ctx)
}

// publish never fails the request: the mutation is already durable.
func (s *MemberService) publish(ctx context.Context, event model.MemberEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish member event", "type", event.Type, "id", event.ID, "error", err)
	}
}

func suppliedFields(p model.MemberPatch) []string {
	var fields []string
	if p.Name.IsSet() {
		fields = append(fields, model.FieldName)
	}
	if p.Role.IsSet() {
		fields = append(fields, model.FieldRole)
	}
	if p.Photo.IsSet() {
		fields = append(fields, model.FieldPhoto)
	}
	if p.Description.IsSet() {
		fields = append(fields, model.FieldDescription)
	}
	return fields
}
