// Package grpc exposes the todokeeper services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/avatars"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"google.golang.org/grpc"
)

// UserService is the account surface the transport needs.
type UserService interface {
	SignIn(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd services.ProfileUpdate) (*models.User, error)
	DeleteAccount(ctx context.Context, userID, password string) error
	AvatarUploadURL(ctx context.Context, userID string) (*avatars.Upload, error)
}

// Facade is the identity-gated category and todo surface.
type Facade interface {
	Todos(ctx context.Context) ([]*models.Todo, error)
	TodosInCategory(ctx context.Context, identifier string) ([]*models.Todo, error)
	Categories(ctx context.Context) ([]*models.Category, error)
	Category(ctx context.Context, identifier string) (*models.Category, error)
	CreateCategory(ctx context.Context, name, slug string) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID, name, slug string) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	CreateTodo(ctx context.Context, title string, categoryIDs []string) (*models.Todo, error)
	UpdateTodo(ctx context.Context, todoID, title string, categoryIDs []string) (*models.Todo, error)
	ToggleTodo(ctx context.Context, todoID string, completed bool) (*models.Todo, error)
	DeleteTodo(ctx context.Context, todoID string) error
}

type GRPCServer struct {
	address   string
	users     UserService
	facade    Facade
	identity  auth.Resolver
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us UserService, f Facade, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		facade:    f,
		identity:  auth.ContextResolver{},
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

// newServer builds a grpc.Server with the interceptor chain and the
// TodoKeeper service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterTodoKeeperServer(srv, s)
	return srv
}
