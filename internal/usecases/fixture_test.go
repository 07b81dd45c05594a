package usecases

import (
	"context"
	"io"

	"botpanel/internal/entities"
	"botpanel/internal/repository/memory"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fixture wires the in-memory stores into the full usecase stack.
type fixture struct {
	users      *memory.UserStore
	businesses *memory.BusinessStore
	chatbots   *memory.ChatbotStore
	modules    *memory.ModuleStore
	audit      *memory.AuditStore

	tokens          *TokenService
	auth            *AuthUsecase
	authz           *Authorizer
	businessUsecase *BusinessUsecase
	chatbotUsecase  *ChatbotUsecase
	moduleUsecase   *ModuleUsecase
	userAdmin       *UserAdminUsecase
}

func newFixture() *fixture {
	store := memory.NewStore()
	f := &fixture{
		users:      store.Users(),
		businesses: store.Businesses(),
		chatbots:   store.Chatbots(),
		modules:    store.Modules(),
		audit:      store.Audit(),
	}
	log := testLogger()
	f.tokens = NewTokenService("test-secret")
	f.auth = NewAuthUsecase(f.users, f.tokens, log)
	f.authz = NewAuthorizer(f.businesses, f.chatbots, f.modules)
	f.businessUsecase = NewBusinessUsecase(f.businesses, f.authz)
	f.chatbotUsecase = NewChatbotUsecase(f.chatbots, f.businesses, f.authz)
	f.moduleUsecase = NewModuleUsecase(f.modules, f.authz)
	f.userAdmin = NewUserAdminUsecase(f.users, f.businesses, f.audit, log)
	return f
}

// seedOwnerChain creates a user owning a business with one chatbot.
func (f *fixture) seedOwnerChain(ctx context.Context, email string) (*entities.User, *entities.Business, *entities.Chatbot) {
	user, err := f.auth.Register(ctx, email, "password1")
	if err != nil {
		panic(err)
	}
	biz, err := f.businessUsecase.Create(ctx, user.ID, BusinessInput{Name: email + " biz"})
	if err != nil {
		panic(err)
	}
	cb, err := f.chatbotUsecase.Create(ctx, user.ID, ChatbotInput{Name: email + " bot", BusinessID: biz.ID})
	if err != nil {
		panic(err)
	}
	return user, biz, cb
}
