package authenticating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marlogas/caja-api/infrastructure/repository/memory"
	"github.com/marlogas/caja-api/infrastructure/repository/mocks"
	"github.com/marlogas/caja-api/internal/config"
	"github.com/marlogas/caja-api/internal/domain"
	"github.com/marlogas/caja-api/pkg/apiErrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{Auth: config.Auth{Secret: "segredo-de-teste", TokenTTL: time.Hour}}
}

func TestService_LoginUser(t *testing.T) {
	repo := memory.NewUserRepository()
	service := NewService(repo, testConfig())

	_, err := service.EnsureUser(context.Background(), " Admin ", "Administrador", "senha123")
	require.NoError(t, err)

	tests := []struct {
		name         string
		username     string
		password     string
		expectedErr  error
		expectedCode string
	}{
		{name: "Credenciais corretas", username: "admin", password: "senha123"},
		{name: "Usuário sem diferenciar maiúsculas", username: "ADMIN", password: "senha123"},
		{name: "Senha incorreta", username: "admin", password: "errada", expectedErr: ErrInvalidCredentials, expectedCode: apiErrors.ErrInvalidCredentials},
		{name: "Usuário inexistente", username: "joao", password: "senha123", expectedErr: ErrUserNotFound, expectedCode: apiErrors.ErrInvalidCredentials},
		{name: "Dados ausentes", username: "", password: "", expectedErr: ErrMissingRequiredData, expectedCode: apiErrors.ErrMissingRequiredData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := service.LoginUser(context.Background(), tt.username, tt.password)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				var authErr *AuthError
				require.True(t, errors.As(err, &authErr))
				assert.Equal(t, tt.expectedCode, authErr.Code)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			claims, err := service.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, "admin", claims.Username)
			assert.Equal(t, "Administrador", claims.UserName)
		})
	}
}

func TestService_LoginUser_UsuarioDesativado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockRepo.EXPECT().
		GetUserByUsername(gomock.Any(), "caja").
		Return(&domain.User{ID: 7, Username: "caja", PasswordHash: string(hash), Active: false}, nil)

	service := NewService(mockRepo, testConfig())

	_, err = service.LoginUser(context.Background(), "caja", "senha123")

	assert.ErrorIs(t, err, ErrUserDisabled)
	assert.True(t, IsCredentialsError(err))
}

func TestService_LoginUser_FalhaNoBanco(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dbErr := domain.WrapError(domain.ErrStoreUnavailable, "consultar usuário", context.DeadlineExceeded)

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockRepo.EXPECT().
		GetUserByUsername(gomock.Any(), "caja").
		Return(nil, dbErr)

	service := NewService(mockRepo, testConfig())

	_, err := service.LoginUser(context.Background(), "caja", "senha123")

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, apiErrors.ErrDatabaseOperation, authErr.Code)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.False(t, IsCredentialsError(err))
}

func TestService_ValidateToken(t *testing.T) {
	service := &Service{secret: []byte("segredo-de-teste"), tokenTTL: time.Hour}
	user := &domain.User{ID: 1, Username: "admin", Name: "Administrador"}

	token, err := service.generateJWT(user)
	require.NoError(t, err)

	t.Run("Token válido", func(t *testing.T) {
		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.UserID)
	})

	t.Run("Token assinado com outro segredo", func(t *testing.T) {
		other := &Service{secret: []byte("outro"), tokenTTL: time.Hour}
		_, err := other.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Token expirado", func(t *testing.T) {
		expired := &Service{secret: []byte("segredo-de-teste"), tokenTTL: -time.Minute}
		expiredToken, err := expired.generateJWT(user)
		require.NoError(t, err)

		_, err = service.ValidateToken(expiredToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Texto qualquer", func(t *testing.T) {
		_, err := service.ValidateToken("nao-e-um-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
