package entity

// Connection credenciales de una cuenta de vendedor conectada al marketplace.
// Se selecciona una por sesión y acota casi todos los endpoints del backend.
type Connection struct {
	ID           int64  `json:"id"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret,omitempty"`
	Nickname     string `json:"nickname"`
	SiteID       string `json:"site_id"`
}

// Site devuelve el sitio del marketplace de la conexión, o def si no viene informado.
func (c *Connection) Site(def string) string {
	if c == nil || c.SiteID == "" {
		return def
	}
	return c.SiteID
}
