package ports

import (
	"context"
	"time"

	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// Puertos de salida hacia el backend proxy del marketplace. Todas las operaciones
// reciben el token Bearer de la sesión; las acotadas por vendedor reciben además el client_id.
// Un adaptador (infrastructure/backend) o un fake de test implementan estos contratos.

// DateRange período cerrado [From, To].
type DateRange struct {
	From time.Time
	To   time.Time
}

// Paging metadatos de paginación devueltos por el backend.
type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ProductQuery filtros de listado de publicaciones.
type ProductQuery struct {
	Status string
	Search string
	Offset int
	Limit  int
}

// LoginResult respuesta de autenticación del backend.
type LoginResult struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

// SyncResult resultado de una sincronización disparada en el backend.
type SyncResult struct {
	Synced  int    `json:"synced"`
	Failed  int    `json:"failed"`
	Message string `json:"message"`
}

// AuthAPI autenticación y conexiones del usuario.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Connections(ctx context.Context, token string) ([]entity.Connection, error)
}

// ProductAPI publicaciones del vendedor.
type ProductAPI interface {
	Products(ctx context.Context, token, clientID string, q ProductQuery) ([]entity.Product, Paging, error)
	Product(ctx context.Context, token, clientID, itemID string) (*entity.Product, error)
	UpdateStock(ctx context.Context, token, clientID, itemID string, quantity int) (*entity.Product, error)
	SyncProducts(ctx context.Context, token, clientID string) (*SyncResult, error)
}

// StockAPI bodegas, existencias y movimientos.
type StockAPI interface {
	Warehouses(ctx context.Context, token, clientID string) ([]entity.Warehouse, error)
	// StockByWarehouse devuelve el arreglo "stock" tal cual; un 404 se traduce en lista vacía.
	StockByWarehouse(ctx context.Context, token, warehouseID string) ([]entity.StockRecord, error)
	Movements(ctx context.Context, token, clientID, kind string, r DateRange) ([]entity.StockMovement, error)
}

// SalesAPI órdenes y envíos.
type SalesAPI interface {
	Sales(ctx context.Context, token, clientID string, r DateRange, offset, limit int) ([]entity.Sale, Paging, error)
	Shipments(ctx context.Context, token, clientID string, r DateRange, status string) ([]entity.Shipment, error)
}

// UserAPI administración de usuarios y roles.
type UserAPI interface {
	Users(ctx context.Context, token string) ([]entity.User, error)
	CreateUser(ctx context.Context, token string, in UserInput) (*entity.User, error)
	UpdateUser(ctx context.Context, token, id string, in UserInput) (*entity.User, error)
	DeleteUser(ctx context.Context, token, id string) error
	Roles(ctx context.Context, token string) ([]entity.Role, error)
}

// UserInput cuerpo de alta/modificación de usuario.
type UserInput struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}
