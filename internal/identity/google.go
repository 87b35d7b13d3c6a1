package identity

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleProvider implements Provider over Google's OAuth2 endpoints.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider builds the auth-code flow configuration.
func NewGoogleProvider(clientID string, clientSecret string, redirectURL string) (*GoogleProvider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: google client credentials are required", ErrInvalidServiceConfig)
	}
	if redirectURL == "" {
		return nil, fmt.Errorf("%w: oauth redirect url is required", ErrInvalidServiceConfig)
	}
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}, nil
}

// AuthCodeURL returns the provider redirect carrying the CSRF state.
func (provider *GoogleProvider) AuthCodeURL(state string) string {
	return provider.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for a verified userinfo profile.
func (provider *GoogleProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	token, err := provider.config.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: code exchange: %v", ErrInvalidProfile, err)
	}
	userinfoService, err := oauth2api.NewService(ctx, option.WithTokenSource(provider.config.TokenSource(ctx, token)))
	if err != nil {
		return Profile{}, fmt.Errorf("userinfo service: %w", err)
	}
	info, err := userinfoService.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return Profile{}, fmt.Errorf("%w: userinfo fetch: %v", ErrInvalidProfile, err)
	}
	profile := Profile{
		GoogleID:  info.Id,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}
