package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/query"
	"github.com/jhoicas/meli-sync-admin/internal/application/report"
	"github.com/jhoicas/meli-sync-admin/internal/application/usecase"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/backend"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/cache"
	infracsv "github.com/jhoicas/meli-sync-admin/internal/infrastructure/csv"
	infraexcel "github.com/jhoicas/meli-sync-admin/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/meli-sync-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/meli-sync-admin/internal/infrastructure/restclient"
	"github.com/jhoicas/meli-sync-admin/pkg/logger"
)

// exportOptions flags del comando. Cada una acepta también la variable EXPORT_<FLAG>.
type exportOptions struct {
	clientID  string
	report    string
	format    string
	warehouse string
	from      string
	to        string
	status    string
	search    string
	out       string
}

// exportOptionsFrom lee las opciones desde viper: flag explícita, luego entorno, luego default.
func exportOptionsFrom(v *viper.Viper) exportOptions {
	return exportOptions{
		clientID:  strings.TrimSpace(v.GetString("client-id")),
		report:    v.GetString("report"),
		format:    v.GetString("format"),
		warehouse: v.GetString("warehouse"),
		from:      v.GetString("from"),
		to:        v.GetString("to"),
		status:    v.GetString("status"),
		search:    v.GetString("q"),
		out:       v.GetString("out"),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("EXPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func newRootCmd(log *logger.Logger) *cobra.Command {
	return newRootCmdWith(newViper(), log)
}

func newRootCmdWith(v *viper.Viper, log *logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "export",
		Short:         "Exporta reportes del marketplace a PDF, Excel o CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), v, exportOptionsFrom(v), log)
		},
	}

	pf := root.PersistentFlags()
	pf.String("backend-url", "http://localhost:3000", "URL base del backend (env EXPORT_BACKEND_URL)")
	pf.String("email", "", "email del usuario del backend (env EXPORT_EMAIL)")
	pf.String("password", "", "contraseña (env EXPORT_PASSWORD)")
	pf.Duration("timeout", 60*time.Second, "timeout de cada petición al backend")
	_ = v.BindPFlags(pf)

	f := root.Flags()
	f.String("client-id", "", "client_id de la conexión, obligatorio (env EXPORT_CLIENT_ID)")
	f.String("report", report.ReportStock, "stock | receptions | despachos | sales | shipments | products")
	f.String("format", string(report.FormatXLSX), "pdf | xlsx | csv")
	f.String("warehouse", "", "bodega (obligatoria para stock)")
	f.String("from", "", "inicio del período AAAA-MM-DD")
	f.String("to", "", "fin del período AAAA-MM-DD")
	f.String("status", "", "filtro de estado (products, shipments)")
	f.String("q", "", "filtro de texto")
	f.StringP("out", "o", "", "archivo de salida (por defecto el nombre sugerido)")
	_ = v.BindPFlags(f)

	root.AddCommand(newConnectionsCmd(v, log))
	return root
}

func newConnectionsCmd(v *viper.Viper, log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "connections",
		Short: "Lista las conexiones de marketplace del usuario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := newBackend(v, log)
			s, err := login(cmd.Context(), api, v)
			if err != nil {
				return err
			}
			list, err := api.Connections(cmd.Context(), s.BackendToken)
			if err != nil {
				return fmt.Errorf("conexiones: %s", domain.UserMessage(err))
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CLIENT_ID\tNICKNAME\tSITIO")
			for _, c := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ClientID, c.Nickname, c.SiteID)
			}
			return w.Flush()
		},
	}
}

func newBackend(v *viper.Viper, log *logger.Logger) *backend.Client {
	return backend.New(restclient.New(restclient.Config{
		Service: "backend",
		BaseURL: v.GetString("backend-url"),
		Timeout: v.GetDuration("timeout"),
	}, restclient.WithLogger(log)))
}

// login abre una sesión efímera: no se persiste ni emite JWT.
func login(ctx context.Context, api *backend.Client, v *viper.Viper) (*entity.Session, error) {
	email, password := v.GetString("email"), v.GetString("password")
	if email == "" || password == "" {
		return nil, fmt.Errorf("--email y --password son obligatorios")
	}
	res, err := api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %s", domain.UserMessage(err))
	}
	return &entity.Session{
		ID:           "cli",
		UserID:       res.User.ID,
		Email:        email,
		Role:         res.User.Role,
		BackendToken: res.Token,
	}, nil
}

func runExport(ctx context.Context, v *viper.Viper, opts exportOptions, log *logger.Logger) error {
	if opts.clientID == "" {
		return fmt.Errorf("--client-id es obligatorio (o EXPORT_CLIENT_ID)")
	}
	api := newBackend(v, log)
	s, err := login(ctx, api, v)
	if err != nil {
		return err
	}

	list, err := api.Connections(ctx, s.BackendToken)
	if err != nil {
		return fmt.Errorf("conexiones: %s", domain.UserMessage(err))
	}
	for i := range list {
		if list[i].ClientID == opts.clientID {
			s.Connection = &list[i]
			break
		}
	}
	if s.Connection == nil {
		return fmt.Errorf("la conexión %s no está disponible para %s", opts.clientID, s.Email)
	}

	q := query.New(cache.NewMemoryCache(16, time.Minute), time.Minute)
	products := usecase.NewProductUseCase(api, q, log)
	stock := usecase.NewStockUseCase(api, q)
	sales := usecase.NewSalesUseCase(api, q)
	reports := usecase.NewReportUseCase(products, stock, sales, report.NewRegistry(
		infrapdf.NewMarotoRenderer("meli-sync-admin"),
		infraexcel.NewExcelizeRenderer(),
		infracsv.NewRenderer(),
	), nil, nil, log)

	res, err := reports.Export(ctx, s, opts.report, dto.ReportRequest{
		PeriodRequest: dto.PeriodRequest{From: opts.from, To: opts.to},
		Format:        opts.format,
		Warehouse:     opts.warehouse,
		Status:        opts.status,
		Search:        opts.search,
	})
	if err != nil {
		return fmt.Errorf("exportar %s: %s", opts.report, domain.UserMessage(err))
	}

	out := opts.out
	if out == "" {
		out = res.Filename
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", out, err)
	}
	log.Info().Str("file", out).Int("rows", res.Rows).Str("client_id", opts.clientID).Msg("reporte generado")
	return nil
}
