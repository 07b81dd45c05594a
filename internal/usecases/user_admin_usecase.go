package usecases

import (
	"context"
	"fmt"

	"botpanel/internal/entities"
	"botpanel/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// UserAdminUsecase covers the admin-only user management surface. Every
// successful mutation appends an audit entry recording the acting admin.
type UserAdminUsecase struct {
	users      interfaces.UserStore
	businesses interfaces.BusinessStore
	audit      interfaces.AuditStore
	log        *logrus.Logger
}

func NewUserAdminUsecase(users interfaces.UserStore, businesses interfaces.BusinessStore, audit interfaces.AuditStore, log *logrus.Logger) *UserAdminUsecase {
	return &UserAdminUsecase{
		users:      users,
		businesses: businesses,
		audit:      audit,
		log:        log,
	}
}

type UserPatch struct {
	ID            string  `json:"id" binding:"required"`
	Role          *string `json:"role"`
	AccountLocked *bool   `json:"accountLocked"`
	Lang          *string `json:"lang"`
}

// List returns all users with their businesses and audit entries attached.
func (uc *UserAdminUsecase) List(ctx context.Context) ([]entities.User, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	grouped, err := uc.businesses.ListAllGroupedByOwner(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := uc.audit.List(ctx)
	if err != nil {
		return nil, err
	}
	byActor := map[string][]entities.AuditLog{}
	for _, e := range logs {
		byActor[e.UserID] = append(byActor[e.UserID], e)
	}
	for i := range users {
		users[i].Businesses = grouped[users[i].ID]
		users[i].Logs = byActor[users[i].ID]
	}
	return users, nil
}

// Update applies a partial merge to the target user. The acting admin may not
// target their own account, which rules out accidental self-lockout and
// self-demotion. Unlocking also resets the failure counter.
func (uc *UserAdminUsecase) Update(ctx context.Context, actorID string, patch UserPatch) (*entities.User, error) {
	user, err := uc.users.GetByID(ctx, patch.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if patch.ID == actorID {
		return nil, ErrSelfAction
	}

	if patch.Role != nil {
		if !entities.ValidRole(*patch.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *patch.Role
	}
	if patch.AccountLocked != nil {
		user.AccountLocked = *patch.AccountLocked
		if !*patch.AccountLocked {
			user.FailedLoginAttempts = 0
		}
	}
	applyString(&user.Lang, patch.Lang)

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}

	uc.appendAudit(ctx, actorID, entities.ActionUpdateUser,
		fmt.Sprintf("Updated user %s: role=%s accountLocked=%t", user.ID, user.Role, user.AccountLocked))
	return user, nil
}

func (uc *UserAdminUsecase) Delete(ctx context.Context, actorID, id string) error {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if id == actorID {
		return ErrSelfAction
	}

	if err := uc.users.Delete(ctx, id); err != nil {
		return err
	}

	uc.appendAudit(ctx, actorID, entities.ActionDeleteUser,
		fmt.Sprintf("Deleted user %s (%s)", user.ID, user.Email))
	return nil
}

func (uc *UserAdminUsecase) Logs(ctx context.Context) ([]entities.AuditLog, error) {
	return uc.audit.List(ctx)
}

// appendAudit must not fail the mutation it records; a write error is logged
// and swallowed.
func (uc *UserAdminUsecase) appendAudit(ctx context.Context, actorID, action, details string) {
	entry := &entities.AuditLog{
		UserID:  actorID,
		Action:  action,
		Status:  entities.AuditStatusSuccess,
		Details: details,
	}
	if err := uc.audit.Append(ctx, entry); err != nil {
		uc.log.WithError(err).Error("failed to append audit log")
	}
}
