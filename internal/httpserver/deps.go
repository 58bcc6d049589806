package httpserver

import (
	"context"

	"shop-backend/internal/domain"
	productrepo "shop-backend/internal/repository/product"
	usersvc "shop-backend/internal/service/user"
)

type authService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
}

type cartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Add(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type checkoutService interface {
	Checkout(ctx context.Context, userID string) (*domain.Order, error)
}

type orderService interface {
	List(ctx context.Context, userID string) ([]domain.Order, error)
	Get(ctx context.Context, userID, publicID string) (*domain.Order, error)
	Cancel(ctx context.Context, userID, publicID string) (*domain.Order, error)
}

type productCatalog interface {
	List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

type categoryCatalog interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type rateLimiter interface {
	Allow(ctx context.Context, scope string) (bool, error)
}

// Deps carries every collaborator the router needs. Limiter may be nil
// when no redis is configured; rate limiting is then disabled.
type Deps struct {
	AuthSvc     authService
	CartSvc     cartService
	CheckoutSvc checkoutService
	OrderSvc    orderService
	Products    productCatalog
	Categories  categoryCatalog
	Limiter     rateLimiter
}
