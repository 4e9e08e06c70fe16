package handlers

import (
	"errors"
	"net/http"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/handlers/render"
	"github.com/codeshelf/coinledger/internal/handlers/userctx"
	"github.com/codeshelf/coinledger/internal/logger"
)

type tokenPairResponse struct {
	Access  string `json:"accessToken"`
	Refresh string `json:"refreshToken"`
}

func handleRegister(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Password string `json:"password" validate:"required,min=8"`
	}

	type response struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		UserID  int64             `json:"userId"`
		Coins   int64             `json:"coins"`
		Tokens  tokenPairResponse `json:"tokens"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := authService.Register(r.Context(), data.Username, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.Fail(w, "User already exists", http.StatusConflict)
			default:
				l.Error("Failed to register user", "error", err)
				render.Fail(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{
			Success: true,
			Message: "User registered successfully",
			UserID:  user.ID,
			Coins:   user.Coins,
			Tokens:  tokenPairResponse{Access: pair.Access.Value, Refresh: pair.Refresh.Value},
		})
	})
}

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	type response struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		UserID  int64             `json:"userId"`
		Tokens  tokenPairResponse `json:"tokens"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := authService.Login(r.Context(), data.Username, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.Fail(w, "Invalid username or password", http.StatusUnauthorized)
			default:
				l.Error("Failed to login user", "error", err)
				render.Fail(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{
			Success: true,
			Message: "User logged in successfully",
			UserID:  user.ID,
			Tokens:  tokenPairResponse{Access: pair.Access.Value, Refresh: pair.Refresh.Value},
		})
	})
}

func handleTokenRefresh(authService authService, l logger.Logger) http.Handler {
	type request struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	type response struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Tokens  tokenPairResponse `json:"tokens"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := authService.RefreshPair(r.Context(), data.RefreshToken)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrRefreshTokenExpired):
				render.Fail(w, "Refresh token expired", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrRefreshTokenIsUsed),
				errors.Is(err, apperrors.ErrRefreshTokenNotFound):
				render.Fail(w, "Refresh token not found", http.StatusUnauthorized)
			default:
				l.Error("Failed to refresh tokens", "error", err)
				render.Fail(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{
			Success: true,
			Message: "Tokens refreshed successfully",
			Tokens:  tokenPairResponse{Access: pair.Access.Value, Refresh: pair.Refresh.Value},
		})
	})
}

func handleUserMe() http.Handler {
	type userResponse struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
		Coins    int64  `json:"coins"`
	}

	type response struct {
		Success bool         `json:"success"`
		User    userResponse `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Fail(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{
			Success: true,
			User: userResponse{
				ID:       user.ID,
				Username: user.Username,
				Role:     user.Role,
				Coins:    user.Coins,
			},
		})
	})
}
