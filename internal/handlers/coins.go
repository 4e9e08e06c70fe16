package handlers

import (
	"net/http"
	"strconv"

	"github.com/codeshelf/coinledger/internal/handlers/render"
	"github.com/codeshelf/coinledger/internal/handlers/userctx"
	"github.com/codeshelf/coinledger/internal/logger"
)

func handleCoinBalance(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		Success bool  `json:"success"`
		Balance int64 `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Fail(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		userID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
		if err != nil {
			render.Fail(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		// Students may read their own balance only
		if user.ID != userID && !user.IsAdmin() {
			render.Fail(w, "Access denied", http.StatusForbidden)
			return
		}

		balance, err := walletService.GetBalance(r.Context(), userID)
		if err != nil {
			failFromError(w, err, l)
			return
		}

		render.JSON(w, response{Success: true, Balance: balance})
	})
}

func handleCoinUpdate(walletService walletService, l logger.Logger) http.Handler {
	type request struct {
		Amount int64  `json:"amount"`
		Reason string `json:"reason"`
	}

	type response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Balance int64  `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
		if err != nil {
			render.Fail(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := walletService.AdjustBalance(r.Context(), userID, data.Amount, data.Reason)
		if err != nil {
			failFromError(w, err, l)
			return
		}

		render.JSON(w, response{
			Success: true,
			Message: "Balance updated",
			Balance: user.Coins,
		})
	})
}

func handleTransfer(walletService walletService, l logger.Logger) http.Handler {
	type request struct {
		ToUserID int64 `json:"toUserId" validate:"required"`
		Amount   int64 `json:"amount"`
	}

	type response struct {
		Success    bool   `json:"success"`
		Message    string `json:"message"`
		NewBalance int64  `json:"newBalance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Fail(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		newBalance, err := walletService.Transfer(r.Context(), user.ID, data.ToUserID, data.Amount)
		if err != nil {
			failFromError(w, err, l)
			return
		}

		render.JSON(w, response{
			Success:    true,
			Message:    "Transfer completed",
			NewBalance: newBalance,
		})
	})
}
