package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	apphttp "github.com/jhoicas/meli-sync-admin/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/meli-sync-admin/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "meli-sync-admin-test"
	testExpMin    = 60
)

// fakeLoader sesiones en memoria indexadas por id.
type fakeLoader map[string]*entity.Session

func (f fakeLoader) Current(_ context.Context, id string) (*entity.Session, error) {
	s, ok := f[id]
	if !ok {
		return nil, domain.ErrSessionExpired
	}
	return s, nil
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil, nil)})
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar la sesión
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(loader fakeLoader, allowedRoles ...string) *fiber.App {
	app := newTestApp()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, loader),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole registra una sesión con el rol indicado y genera su JWT.
func tokenForRole(t *testing.T, loader fakeLoader, role string) string {
	t.Helper()
	sessionID := "sess-" + role
	loader[sessionID] = &entity.Session{ID: sessionID, UserID: testUserID, Role: role}
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, sessionID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El usuario tiene el rol requerido → debe pasar (HTTP 200).
func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	loader := fakeLoader{}
	app := buildTestApp(loader, "admin")
	resp := doRequest(t, app, tokenForRole(t, loader, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la respuesta debe incluir ok:true")
	assert.Equal(t, "admin", body["role"], "el role debe ser admin")
}

// Caso 1b: El usuario tiene uno de los roles permitidos (multi-rol) → HTTP 200.
func TestRequireRole_OperadorAccedeRutaAdminUOperador(t *testing.T) {
	loader := fakeLoader{}
	app := buildTestApp(loader, "admin", "operador")
	resp := doRequest(t, app, tokenForRole(t, loader, "operador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"operador debe poder acceder a ruta que permite admin u operador")
}

// Caso 2: El usuario tiene un rol diferente al requerido → HTTP 403 Forbidden.
func TestRequireRole_LectorBloqueadoEnRutaAdmin(t *testing.T) {
	loader := fakeLoader{}
	app := buildTestApp(loader, "admin")
	resp := doRequest(t, app, tokenForRole(t, loader, "lector"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"lector no debe poder acceder a ruta restringida a admin")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN",
		"la respuesta de error debe incluir el código FORBIDDEN")
}

// Caso 2b: el rol de la sesión manda sobre el del token.
func TestRequireRole_RolDeLaSesionPrevalece(t *testing.T) {
	loader := fakeLoader{}
	app := buildTestApp(loader, "admin")
	header := tokenForRole(t, loader, "admin")
	loader["sess-admin"].Role = "lector"

	resp := doRequest(t, app, header)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Caso 3: Sesión y token sin rol → HTTP 401.
func TestRequireRole_SesionSinRol_Retorna401(t *testing.T) {
	loader := fakeLoader{}
	app := buildTestApp(loader, "admin")

	resp := doRequest(t, app, tokenForRole(t, loader, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"sesión sin rol debe retornar 401")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE",
		"la respuesta debe indicar el código MISSING_ROLE")
}

// Caso 4: Sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(fakeLoader{}, "admin")
	resp := doRequest(t, app, "") // sin header
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 5: Token inválido / malformado → HTTP 401 INVALID_TOKEN.
func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(fakeLoader{}, "admin")
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 6: Token válido de una sesión que ya no existe → HTTP 401 SESSION_EXPIRED.
func TestAuthMiddleware_SesionInexistente_Retorna401(t *testing.T) {
	app := buildTestApp(fakeLoader{}, "admin")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "borrada", "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "SESSION_EXPIRED")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: datos de la sesión en locals
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtractaSesion(t *testing.T) {
	loader := fakeLoader{}
	app := newTestApp()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, loader), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"session_id": apphttp.GetSessionID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, loader, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "sess-admin", body["session_id"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireConnection(t *testing.T) {
	loader := fakeLoader{}
	app := newTestApp()
	app.Get("/products", apphttp.AuthMiddleware(testJWTSecret, loader), apphttp.RequireConnection(), func(c *fiber.Ctx) error {
		return c.SendString(apphttp.GetSession(c).ClientID())
	})
	header := tokenForRole(t, loader, "operador")

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", header)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	loader["sess-operador"].Connection = &entity.Connection{ClientID: "111"}
	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", header)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "111", string(body))
}
