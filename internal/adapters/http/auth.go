package httpadapter

import (
	"context"
	"net/http"
	"strings"

	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

// authenticate extracts the bearer token and resolves it to a user. On
// failure it writes the 401 response and returns ok=false.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	token := bearerToken(r)
	if token == "" {
		unauthorized(w)
		return "", false
	}

	userID, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		unauthorized(w)
		return "", false
	}
	return userID, true
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, prefix))
}

// StaticTokenVerifier resolves tokens from a fixed "token=user,token=user"
// spec. Local-mode stand-in for a real identity provider.
type StaticTokenVerifier struct {
	tokens map[string]domain.UserID
}

func NewStaticTokenVerifier(spec string) *StaticTokenVerifier {
	tokens := make(map[string]domain.UserID)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, user, found := strings.Cut(pair, "=")
		if !found || token == "" || user == "" {
			continue
		}
		tokens[token] = domain.UserID(user)
	}
	return &StaticTokenVerifier{tokens: tokens}
}

func (v *StaticTokenVerifier) Verify(_ context.Context, token string) (domain.UserID, error) {
	if userID, ok := v.tokens[token]; ok {
		return userID, nil
	}
	return "", domain.ErrUnauthorized
}
