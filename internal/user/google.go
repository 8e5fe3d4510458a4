package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var ErrGoogleEmailNotVerified = errors.New("google account email is not verified")

type GoogleIdentity struct {
	Email        string
	FirstName    string
	LastName     string
	RefreshToken string
}

// GoogleAuth turns an OAuth2 authorization code into a verified identity.
type GoogleAuth interface {
	Exchange(ctx context.Context, code string) (*GoogleIdentity, error)
}

type googleAuth struct {
	oauthConfig *oauth2.Config
}

func NewGoogleAuth(clientID, clientSecret, redirectURL string) GoogleAuth {
	if clientID == "" {
		return nil
	}
	return &googleAuth{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{googleoauth.OpenIDScope, googleoauth.UserinfoEmailScope, googleoauth.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
	}
}

func (g *googleAuth) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	token, err := g.oauthConfig.Exchange(ctx, code, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, fmt.Errorf("exchange google code: %w", err)
	}

	srv, err := googleoauth.NewService(ctx, option.WithTokenSource(g.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create google oauth2 client: %w", err)
	}

	info, err := srv.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch google userinfo: %w", err)
	}
	if info.VerifiedEmail == nil || !*info.VerifiedEmail {
		return nil, ErrGoogleEmailNotVerified
	}

	return &GoogleIdentity{
		Email:        info.Email,
		FirstName:    info.GivenName,
		LastName:     info.FamilyName,
		RefreshToken: token.RefreshToken,
	}, nil
}
