// Package storefront ties the client-side pieces together: the
// credential client obtains tokens, the session store holds them, and
// the cart follows the session's lead.
package storefront

import (
	"context"

	"github.com/a1-en/E-Shoe-Store/pkg/cart"
	"github.com/a1-en/E-Shoe-Store/pkg/catalog"
	"github.com/a1-en/E-Shoe-Store/pkg/credential"
	"github.com/a1-en/E-Shoe-Store/pkg/session"
)

// Storefront is the client-side façade. All fields are safe for
// concurrent use.
type Storefront struct {
	Session *session.Store
	Cart    *cart.Store
	Catalog *catalog.Client
	Search  *catalog.Searcher

	credentials *credential.Client
}

// Config collects the collaborators a Storefront needs.
type Config struct {
	Credentials  *credential.Client
	Catalog      *catalog.Client
	TokenStorage session.TokenStorage
	CartStorage  cart.Storage // nil for an ephemeral cart
}

// New builds a storefront, loading any persisted session and cart.
func New(ctx context.Context, cfg Config) (*Storefront, error) {
	sess, err := session.New(ctx, cfg.TokenStorage)
	if err != nil {
		return nil, err
	}

	var cartOpts []cart.Option
	if cfg.CartStorage != nil {
		cartOpts = append(cartOpts, cart.WithStorage(cfg.CartStorage))
	}
	crt, err := cart.New(ctx, sess, cartOpts...)
	if err != nil {
		return nil, err
	}

	return &Storefront{
		Session:     sess,
		Cart:        crt,
		Catalog:     cfg.Catalog,
		Search:      catalog.NewSearcher(cfg.Catalog),
		credentials: cfg.Credentials,
	}, nil
}

// SignUp registers a new account and starts a session with the issued
// token.
func (s *Storefront) SignUp(ctx context.Context, username, email, password string) error {
	token, err := s.credentials.Signup(ctx, username, email, password)
	if err != nil {
		return err
	}
	return s.Session.Login(ctx, token)
}

// SignIn logs an existing account in and starts a session.
func (s *Storefront) SignIn(ctx context.Context, email, password string) error {
	token, err := s.credentials.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.Session.Login(ctx, token)
}

// SignOut ends the session. The cart is left as configured: persisted
// carts survive, ephemeral ones simply become unreachable behind the
// auth gate.
func (s *Storefront) SignOut(ctx context.Context) error {
	return s.Session.Logout(ctx)
}

// Close releases subscribers on the session and cart stores.
func (s *Storefront) Close() {
	s.Cart.Close()
	s.Session.Close()
}
