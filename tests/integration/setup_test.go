package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	adaptershttp "github.com/iho/gobudget/internal/adapter/http"
	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/adapter/http/handler"
	"github.com/iho/gobudget/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/gobudget/internal/adapter/repository/redis"
	"github.com/iho/gobudget/internal/infrastructure/auth"
	infraredis "github.com/iho/gobudget/internal/infrastructure/redis"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/tests/testutil"
)

// testEnv wires the full stack against real Postgres and Redis.
type testEnv struct {
	DB            *testutil.TestDB
	Redis         *redis.Client
	Router        http.Handler
	JWTManager    *auth.JWTManager
	BudgetUC      *usecase.BudgetUseCase
	TransactionUC *usecase.TransactionUseCase
	RecurringUC   *usecase.RecurringUseCase
	OutboxRepo    *postgres.OutboxRepository
	Cache         *redisrepo.Cache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	cache := redisrepo.NewCache(redisClient)
	idGen := postgres.NewULIDGenerator()
	clock := usecase.NewSystemClock()

	budgetUC := usecase.NewBudgetUseCase(txManager, budgetRepo, outboxRepo, auditRepo, cache, idGen, clock)
	transactionUC := usecase.NewTransactionUseCase(transactionRepo, auditRepo, idGen, clock)
	reportUC := usecase.NewReportUseCase(budgetRepo, cache)
	userUC := usecase.NewUserUseCase(userRepo, auditRepo, idGen, clock)
	recurringUC := usecase.NewRecurringUseCase(transactionRepo, idGen, clock, zerolog.Nop(), time.Hour)

	jwtManager := auth.NewJWTManager("integration-test-secret", time.Hour)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		BudgetHandler:      handler.NewBudgetHandler(budgetUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager),
		AuditHandler:       handler.NewAuditHandler(auditRepo),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		JWTManager:         jwtManager,
	})

	return &testEnv{
		DB:            testDB,
		Redis:         redisClient,
		Router:        router,
		JWTManager:    jwtManager,
		BudgetUC:      budgetUC,
		TransactionUC: transactionUC,
		RecurringUC:   recurringUC,
		OutboxRepo:    outboxRepo,
		Cache:         cache,
	}
}

// registerAndLogin creates an account through the API and returns the
// bearer token plus the user's ID.
func (env *testEnv) registerAndLogin(t *testing.T, email string) (string, string) {
	t.Helper()

	registerBody, _ := json.Marshal(dto.RegisterRequest{
		Email:    email,
		Name:     "Integration Tester",
		Password: testutil.TestPassword,
	})

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", registerBody, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed with status %d: %s", w.Code, w.Body.String())
	}

	loginBody, _ := json.Marshal(dto.LoginRequest{
		Email:    email,
		Password: testutil.TestPassword,
	})

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", loginBody, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse login response: %v", err)
	}

	return resp.Token, resp.User.ID
}

func (env *testEnv) do(t *testing.T, method, path string, body []byte, token string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}

	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, r)

	return w
}
