package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog/internal/errs"
	"catalog/internal/handlers"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type backend struct {
	name    string
	// upserts reports whether saving an already stored email keeps its id.
	upserts bool
	setup   func(t *testing.T) (repositories.UserRepository, repositories.ProductRepository)
}

var backends = []backend{
	{
		name: "memory",
		setup: func(t *testing.T) (repositories.UserRepository, repositories.ProductRepository) {
			return repositories.NewMemoryUserRepository(), repositories.NewMemoryProductRepository()
		},
	},
	{
		name:    "sqlite",
		upserts: true,
		setup: func(t *testing.T) (repositories.UserRepository, repositories.ProductRepository) {
			db := openTestDB(t)
			return repositories.NewGORMUserRepository(db, true), repositories.NewGORMProductRepository(db)
		},
	},
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// setupApp builds a Fiber app with every handler mounted under /api.
func setupApp(users repositories.UserRepository, products repositories.ProductRepository) *fiber.App {
	log := zerolog.Nop()
	app := fiber.New()
	api := app.Group("/api")

	handlers.NewAPIHandler().RegisterRoutes(api)
	handlers.NewUserHandler(services.NewUserService(users, nil, log), log).RegisterRoutes(api)
	handlers.NewProductHandler(services.NewProductService(products, nil, log), log).RegisterRoutes(api)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode(t *testing.T, data []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v), "body: %s", data)
}

func TestUserEndpoints(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			app := setupApp(b.setup(t))

			t.Run("health", func(t *testing.T) {
				resp, body := doRequest(t, app, http.MethodGet, "/api/users/health", "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, handlers.UserHealthMessage, string(body))
			})

			t.Run("process upper-cases the name", func(t *testing.T) {
				resp, body := doRequest(t, app, http.MethodPost, "/api/users/process",
					`{"name":"john doe","email":"john@example.com","age":30}`)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var user models.UserResponse
				decode(t, body, &user)
				require.NotNil(t, user.ID)
				assert.Equal(t, "JOHN DOE", user.Name)
				assert.Equal(t, "john@example.com", user.Email)
				assert.Equal(t, 30, user.Age)
				assert.Equal(t, models.UserStatusActive, user.Status)
				assert.False(t, user.CreatedAt.IsZero())
			})

			t.Run("process rejects out of range age", func(t *testing.T) {
				for _, body := range []string{
					`{"name":"too old","age":151}`,
					`{"name":"negative","age":-1}`,
					`{"email":"noname@example.com","age":20}`,
				} {
					resp, data := doRequest(t, app, http.MethodPost, "/api/users/process", body)
					assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
					assert.Empty(t, data)
				}
			})

			t.Run("process accepts boundary ages", func(t *testing.T) {
				for _, age := range []int{0, 150} {
					resp, _ := doRequest(t, app, http.MethodPost, "/api/users/process",
						fmt.Sprintf(`{"name":"edge","email":"edge%d@example.com","age":%d}`, age, age))
					assert.Equal(t, http.StatusOK, resp.StatusCode)
				}
			})

			t.Run("validate keeps the name verbatim", func(t *testing.T) {
				resp, body := doRequest(t, app, http.MethodPost, "/api/users/validate",
					`{"name":"Jane","email":"jane@example.com","age":25}`)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var user models.UserResponse
				decode(t, body, &user)
				assert.Equal(t, "Jane", user.Name)
				assert.Equal(t, models.UserStatusValidated, user.Status)
			})

			t.Run("validate rejects bad input", func(t *testing.T) {
				for _, body := range []string{
					`{"name":"Jane","email":"not-an-email"}`,
					`{"name":"","email":"jane@example.com"}`,
					`{"name":"Jane"}`,
				} {
					resp, data := doRequest(t, app, http.MethodPost, "/api/users/validate", body)
					assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
					assert.Empty(t, data)
				}
			})

			t.Run("register answers 201", func(t *testing.T) {
				resp, body := doRequest(t, app, http.MethodPost, "/api/users/register",
					`{"name":"reg user","email":"reg@example.com","age":41}`)
				require.Equal(t, http.StatusCreated, resp.StatusCode)

				var user models.UserResponse
				decode(t, body, &user)
				assert.Equal(t, "REG USER", user.Name)
				assert.Equal(t, models.UserStatusActive, user.Status)
			})

			t.Run("register requires name and email", func(t *testing.T) {
				for _, body := range []string{
					`{"name":"reg user","age":41}`,
					`{"email":"reg@example.com","age":41}`,
				} {
					resp, data := doRequest(t, app, http.MethodPost, "/api/users/register", body)
					assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
					assert.Empty(t, data)
				}
			})

			t.Run("malformed body", func(t *testing.T) {
				resp, data := doRequest(t, app, http.MethodPost, "/api/users/process", `{"name":`)
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Empty(t, data)
			})

			t.Run("by-email finds the saved user", func(t *testing.T) {
				resp, body := doRequest(t, app, http.MethodGet, "/api/users/by-email?email=reg@example.com", "")
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var user models.UserResponse
				decode(t, body, &user)
				assert.Equal(t, "REG USER", user.Name)
				assert.Equal(t, 41, user.Age)
			})

			t.Run("by-email unknown and empty", func(t *testing.T) {
				resp, data := doRequest(t, app, http.MethodGet, "/api/users/by-email?email=ghost@example.com", "")
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
				assert.Empty(t, data)

				resp, data = doRequest(t, app, http.MethodGet, "/api/users/by-email", "")
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Empty(t, data)
			})

			t.Run("saving an email twice", func(t *testing.T) {
				_, first := doRequest(t, app, http.MethodPost, "/api/users/process",
					`{"name":"Alice","email":"alice@x.com","age":28}`)
				_, second := doRequest(t, app, http.MethodPost, "/api/users/process",
					`{"name":"Alice","email":"alice@x.com","age":29}`)

				var u1, u2 models.UserResponse
				decode(t, first, &u1)
				decode(t, second, &u2)
				require.NotNil(t, u1.ID)
				require.NotNil(t, u2.ID)
				if b.upserts {
					assert.Equal(t, *u1.ID, *u2.ID)
				} else {
					assert.Greater(t, *u2.ID, *u1.ID)
				}

				resp, body := doRequest(t, app, http.MethodGet, "/api/users/by-email?email=alice@x.com", "")
				require.Equal(t, http.StatusOK, resp.StatusCode)
				var stored models.UserResponse
				decode(t, body, &stored)
				assert.Equal(t, *u2.ID, *stored.ID)
				assert.Equal(t, 29, stored.Age)
			})
		})
	}
}

func TestProductEndpoints(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			app := setupApp(b.setup(t))

			t.Run("health", func(t *testing.T) {
				resp, body := doRequest(t, app, http.MethodGet, "/api/products/health", "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, handlers.ProductHealthMessage, string(body))
			})

			t.Run("create answers 201 with totals", func(t *testing.T) {
				resp, body := doRequest(t, app, http.MethodPost, "/api/products/create",
					`{"title":"Phone","description":"Smart","price":300,"quantity":2}`)
				require.Equal(t, http.StatusCreated, resp.StatusCode)

				var product models.ProductResponse
				decode(t, body, &product)
				require.NotNil(t, product.ID)
				assert.Equal(t, "Phone", product.Title)
				assert.InDelta(t, 600.0, product.TotalValue, 1e-9)
				assert.Equal(t, models.ProductCategoryGeneral, product.Category)
				assert.True(t, product.Available)
			})

			t.Run("calculate answers 200", func(t *testing.T) {
				resp, body := doRequest(t, app, http.MethodPost, "/api/products/calculate",
					`{"title":"Empty","price":10,"quantity":0}`)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var product models.ProductResponse
				decode(t, body, &product)
				assert.Zero(t, product.TotalValue)
				assert.False(t, product.Available)
			})

			t.Run("create rejects bad input", func(t *testing.T) {
				for _, body := range []string{
					`{"title":"","price":10,"quantity":1}`,
					`{"price":10,"quantity":1}`,
					`{"title":"Negative","price":-1,"quantity":1}`,
				} {
					resp, data := doRequest(t, app, http.MethodPost, "/api/products/create", body)
					assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
					assert.Empty(t, data)
				}
			})

			t.Run("overflowing total is rejected and not stored", func(t *testing.T) {
				resp, data := doRequest(t, app, http.MethodPost, "/api/products/create",
					`{"title":"Big","price":1e308,"quantity":10}`)
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Empty(t, data)

				resp, _ = doRequest(t, app, http.MethodGet, "/api/products/by-title?title=Big", "")
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})

			t.Run("discount uses the default percent", func(t *testing.T) {
				resp, body := doRequest(t, app, http.MethodPost, "/api/products/discount",
					`{"title":"Item","price":100,"quantity":3}`)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var product models.ProductResponse
				decode(t, body, &product)
				assert.InDelta(t, 90.0, product.Price, 1e-9)
				assert.InDelta(t, 270.0, product.TotalValue, 1e-9)
				assert.Equal(t, models.ProductCategoryDiscounted, product.Category)
			})

			t.Run("discount with explicit percent", func(t *testing.T) {
				resp, body := doRequest(t, app, http.MethodPost, "/api/products/discount?discount=25",
					`{"title":"Quarter","price":80,"quantity":1}`)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var product models.ProductResponse
				decode(t, body, &product)
				assert.InDelta(t, 60.0, product.Price, 1e-9)
			})

			t.Run("discount rejects bad percent", func(t *testing.T) {
				for _, q := range []string{"-1", "101", "abc"} {
					resp, data := doRequest(t, app, http.MethodPost, "/api/products/discount?discount="+q,
						`{"title":"Item","price":100,"quantity":3}`)
					assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
					assert.Empty(t, data)
				}
			})

			t.Run("by-title returns the latest product", func(t *testing.T) {
				doRequest(t, app, http.MethodPost, "/api/products/create", `{"title":"Lamp","price":10,"quantity":1}`)
				doRequest(t, app, http.MethodPost, "/api/products/create", `{"title":"Lamp","price":20,"quantity":1}`)

				resp, body := doRequest(t, app, http.MethodGet, "/api/products/by-title?title=Lamp", "")
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var product models.ProductResponse
				decode(t, body, &product)
				assert.InDelta(t, 20.0, product.Price, 1e-9)
			})

			t.Run("by-title unknown and empty", func(t *testing.T) {
				resp, data := doRequest(t, app, http.MethodGet, "/api/products/by-title?title=Nothing", "")
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
				assert.Empty(t, data)

				resp, data = doRequest(t, app, http.MethodGet, "/api/products/by-title", "")
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Empty(t, data)
			})

			t.Run("identities increase", func(t *testing.T) {
				_, first := doRequest(t, app, http.MethodPost, "/api/products/create", `{"title":"A","price":1,"quantity":1}`)
				_, second := doRequest(t, app, http.MethodPost, "/api/products/create", `{"title":"B","price":1,"quantity":1}`)

				var p1, p2 models.ProductResponse
				decode(t, first, &p1)
				decode(t, second, &p2)
				require.NotNil(t, p1.ID)
				require.NotNil(t, p2.ID)
				assert.Greater(t, *p2.ID, *p1.ID)
			})
		})
	}
}

func TestAPIEndpoints(t *testing.T) {
	app := setupApp(repositories.NewMemoryUserRepository(), repositories.NewMemoryProductRepository())

	t.Run("welcome", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodGet, "/api/welcome", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		decode(t, body, &got)
		assert.Equal(t, handlers.Version, got["version"])
		assert.Equal(t, "running", got["status"])
		assert.NotEmpty(t, got["message"])
	})

	t.Run("echo", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodPost, "/api/echo", `{"hello":"world"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		decode(t, body, &got)
		assert.Equal(t, map[string]any{"hello": "world"}, got["received"])
		assert.Equal(t, "echo_response", got["type"])
		assert.Greater(t, got["timestamp"], float64(0))
	})

	t.Run("info", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodGet, "/api/info", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		decode(t, body, &got)
		for _, key := range []string{"application", "go_version", "os_name", "os_arch"} {
			assert.NotEmpty(t, got[key], key)
		}
	})

	t.Run("transform sorts keys", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodPost, "/api/transform", `{"b":1,"a":2,"c":3}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got struct {
			KeysCount int      `json:"keys_count"`
			Keys      []string `json:"keys"`
			Processed bool     `json:"processed"`
		}
		decode(t, body, &got)
		assert.Equal(t, 3, got.KeysCount)
		assert.Equal(t, []string{"a", "b", "c"}, got.Keys)
		assert.True(t, got.Processed)
	})

	t.Run("malformed bodies", func(t *testing.T) {
		for _, path := range []string{"/api/echo", "/api/transform"} {
			resp, _ := doRequest(t, app, http.MethodPost, path, `not json`)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		}
	})
}

// failingUserRepository fails every call with a driver-looking persistence error.
type failingUserRepository struct{}

func (failingUserRepository) Save(context.Context, *models.UserResponse) error {
	return errs.Persistence("upsert user", errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505) secret@example.com"))
}

func (failingUserRepository) FindByEmail(context.Context, string) (*models.UserResponse, error) {
	return nil, errors.New("connection refused")
}

func TestServerErrorsHideTheCause(t *testing.T) {
	app := setupApp(failingUserRepository{}, repositories.NewMemoryProductRepository())

	resp, body := doRequest(t, app, http.MethodPost, "/api/users/process",
		`{"name":"Alice","email":"secret@example.com","age":28}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Could not persist the result"}`, string(body))

	resp, body = doRequest(t, app, http.MethodGet, "/api/users/by-email?email=secret@example.com", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Could not process request"}`, string(body))
	assert.NotContains(t, string(body), "connection refused")
}
