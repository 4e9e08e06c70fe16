package coins

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/codeshelf/coinledger/internal/testutil"
	"github.com/codeshelf/coinledger/tests/e2e"
)

const (
	RegisterURL     = "/api/auth/register"
	TransferURL     = "/api/coins/transfer"
	BalanceURL      = "/api/coins/balance/"
	TransactionsURL = "/api/transactions/me"
)

func Test_Transfer(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeInTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		type registered struct {
			UserID int64
			Access string
		}

		// Register returns the user id and access token, balance starts at 100
		register := func(t *testing.T, username string) registered {
			resp, err := http.Post(
				srvURL+RegisterURL,
				"application/json",
				strings.NewReader(`{"username": "`+username+`", "password": "long enough password"}`),
			)
			require.NoError(t, err, "failed to send register request")
			defer resp.Body.Close() // nolint:errcheck

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "register should return 200. Body: %s", string(body))

			var parsed struct {
				UserID int64 `json:"userId"`
				Tokens struct {
					Access string `json:"accessToken"`
				} `json:"tokens"`
			}
			require.NoError(t, json.Unmarshal(body, &parsed))
			return registered{UserID: parsed.UserID, Access: parsed.Tokens.Access}
		}

		doJSON := func(t *testing.T, method string, url string, access string, payload string) (*http.Response, string) {
			var reqBody io.Reader
			if payload != "" {
				reqBody = strings.NewReader(payload)
			}

			req, err := http.NewRequest(method, url, reqBody)
			require.NoError(t, err, "failed to create request")
			req.Header.Set("Authorization", "Bearer "+access)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err, "failed to send request")
			defer resp.Body.Close() // nolint:errcheck

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "failed to read response body")
			return resp, string(body)
		}

		t.Run("transfer moves coins between users", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				sender := register(t, "gordon")
				receiver := register(t, "alyx")

				resp, body := doJSON(t, http.MethodPost, srvURL+TransferURL, sender.Access,
					`{"toUserId": `+strconv.FormatInt(receiver.UserID, 10)+`, "amount": 40}`)

				require.Equalf(t, http.StatusOK, resp.StatusCode, "transfer should return 200. Body: %s", body)
				require.JSONEq(t, `{
					"success": true,
					"message": "Transfer completed",
					"newBalance": 60
				}`, body)

				resp, body = doJSON(t, http.MethodGet,
					srvURL+BalanceURL+strconv.FormatInt(receiver.UserID, 10), receiver.Access, "")
				require.Equal(t, http.StatusOK, resp.StatusCode)
				require.JSONEq(t, `{"success": true, "balance": 140}`, body)
			})
		})

		t.Run("transfer shows up in both histories", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				sender := register(t, "gordon")
				receiver := register(t, "alyx")

				resp, _ := doJSON(t, http.MethodPost, srvURL+TransferURL, sender.Access,
					`{"toUserId": `+strconv.FormatInt(receiver.UserID, 10)+`, "amount": 40}`)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				parseHistory := func(body string) []map[string]any {
					var parsed struct {
						Data []map[string]any `json:"data"`
					}
					require.NoError(t, json.Unmarshal([]byte(body), &parsed))
					return parsed.Data
				}

				_, body := doJSON(t, http.MethodGet, srvURL+TransactionsURL, sender.Access, "")
				history := parseHistory(body)
				require.Len(t, history, 2, "signup bonus plus the transfer debit")
				require.Equal(t, "debit", history[0]["type"], "newest entry is the transfer")
				require.Equal(t, float64(40), history[0]["amount"])

				_, body = doJSON(t, http.MethodGet, srvURL+TransactionsURL, receiver.Access, "")
				history = parseHistory(body)
				require.Len(t, history, 2)
				require.Equal(t, "credit", history[0]["type"])
				require.Equal(t, float64(40), history[0]["amount"])
			})
		})

		t.Run("transfer over the balance fails", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				sender := register(t, "gordon")
				receiver := register(t, "alyx")

				resp, body := doJSON(t, http.MethodPost, srvURL+TransferURL, sender.Access,
					`{"toUserId": `+strconv.FormatInt(receiver.UserID, 10)+`, "amount": 500}`)

				require.Equal(t, http.StatusBadRequest, resp.StatusCode)
				require.JSONEq(t, `{
					"success": false,
					"message": "Insufficient coins",
					"requiredCoins": 500,
					"currentCoins": 100
				}`, body)
			})
		})

		t.Run("reading someone else's balance is denied", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				sender := register(t, "gordon")
				receiver := register(t, "alyx")

				resp, body := doJSON(t, http.MethodGet,
					srvURL+BalanceURL+strconv.FormatInt(receiver.UserID, 10), sender.Access, "")

				require.Equal(t, http.StatusForbidden, resp.StatusCode)
				require.JSONEq(t, `{"success": false, "message": "Access denied"}`, body)
			})
		})
	})
}
