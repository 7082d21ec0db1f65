package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	objmem "vetcare-api/internal/adapters/objectstore/memory"
	"vetcare-api/internal/adapters/push/ws"
	mem "vetcare-api/internal/adapters/storage/memory"
	pg "vetcare-api/internal/adapters/storage/postgres"
	_ "vetcare-api/internal/docs"
	"vetcare-api/internal/domain/anamnesis"
	"vetcare-api/internal/domain/appointments"
	"vetcare-api/internal/domain/attachments"
	"vetcare-api/internal/domain/clinics"
	"vetcare-api/internal/domain/diagnoses"
	"vetcare-api/internal/domain/healthupdates"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/notifications"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/domain/quarantines"
	"vetcare-api/internal/domain/sectors"
	"vetcare-api/internal/domain/slots"
	"vetcare-api/internal/domain/treatments"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/logger"
	"vetcare-api/internal/platform/respond"
	"vetcare-api/internal/ports/auth"
	"vetcare-api/internal/ports/storage"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// TokenService firma y verifica los tokens de sesión.
type TokenService interface {
	auth.AuthVerifier
	auth.TokenIssuer
}

type Options struct {
	Log    logger.Logger
	Tokens TokenService

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: sin storage de objetos se guardan en memoria.
	Objects storage.ObjectStorage

	// Hub opcional: si viene se monta /api/ws y se suma como canal de notificaciones.
	Hub      *ws.Hub
	Channels []notifications.Channel

	CORSAllowedOrigins []string
	ClinicLocation     *time.Location

	// Admin opcional: cuenta ADMIN inicial, se crea si no existe.
	Admin *users.RegisterInput

	// AuthLimiter limita register/login por IP; nil = sin límite.
	AuthLimiter *middleware.RateLimiter
}

// App es lo que arma el router: el handler HTTP más los servicios que usan los jobs.
type App struct {
	Handler       http.Handler
	Appointments  *appointments.Service
	Quarantines   *quarantines.Service
	Notifications *notifications.Service
}

type repos struct {
	users         users.Repository
	clinics       clinics.Repository
	sectors       sectors.Repository
	pets          pets.Repository
	healthUpdates healthupdates.Repository
	slots         slots.Repository
	appointments  appointments.Repository
	anamnesis     anamnesis.Repository
	attachments   attachments.Repository
	diagnoses     diagnoses.Repository
	treatments    treatments.Repository
	quarantines   quarantines.Repository
	notifications notifications.Repository
}

// memoryRepos comparte un solo Store para que los borrados en cascada crucen módulos.
func memoryRepos() repos {
	st := mem.NewStore()
	return repos{
		users:         st.Users(),
		clinics:       st.Clinics(),
		sectors:       st.Sectors(),
		pets:          st.Pets(),
		healthUpdates: st.HealthUpdates(),
		slots:         st.Slots(),
		appointments:  st.Appointments(),
		anamnesis:     st.Anamnesis(),
		attachments:   st.Attachments(),
		diagnoses:     st.Diagnoses(),
		treatments:    st.Treatments(),
		quarantines:   st.Quarantines(),
		notifications: st.Notifications(),
	}
}

func postgresRepos(db *sql.DB) repos {
	return repos{
		users:         pg.NewUsersRepo(db),
		clinics:       pg.NewClinicsRepo(db),
		sectors:       pg.NewSectorsRepo(db),
		pets:          pg.NewPetsRepo(db),
		healthUpdates: pg.NewHealthUpdatesRepo(db),
		slots:         pg.NewSlotsRepo(db),
		appointments:  pg.NewAppointmentsRepo(db),
		anamnesis:     pg.NewAnamnesisRepo(db),
		attachments:   pg.NewAttachmentsRepo(db),
		diagnoses:     pg.NewDiagnosesRepo(db),
		treatments:    pg.NewTreatmentsRepo(db),
		quarantines:   pg.NewQuarantinesRepo(db),
		notifications: pg.NewNotificationsRepo(db),
	}
}

// NewRouter devuelve solo el handler; los tests no necesitan los servicios.
func NewRouter(opts Options) http.Handler {
	return New(opts).Handler
}

func New(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	respond.SetLogger(log)

	rp := memoryRepos()
	if opts.DB != nil {
		rp = postgresRepos(opts.DB)
	}

	objects := opts.Objects
	if objects == nil {
		objects = objmem.New("")
	}

	channels := opts.Channels
	if opts.Hub != nil {
		channels = append([]notifications.Channel{opts.Hub}, channels...)
	}

	// Services por módulo
	notificationsSvc := notifications.NewService(rp.notifications, log, channels...)
	clinicsSvc := clinics.NewService(rp.clinics)
	usersSvc := users.NewService(rp.users, opts.Tokens, objects, clinicsSvc)
	sectorsSvc := sectors.NewService(rp.sectors)
	petsSvc := pets.NewService(rp.pets, usersSvc, sectorsSvc, objects)
	healthSvc := healthupdates.NewService(rp.healthUpdates, petsSvc)
	slotsSvc := slots.NewService(rp.slots, usersSvc, opts.ClinicLocation)
	appointmentsSvc := appointments.NewService(rp.appointments, petsSvc, usersSvc, slotsSvc, healthSvc, notificationsSvc, log)
	anamnesisSvc := anamnesis.NewService(rp.anamnesis, petsSvc, appointmentsSvc)
	attachmentsSvc := attachments.NewService(rp.attachments, anamnesisSvc, objects)
	diagnosesSvc := diagnoses.NewService(rp.diagnoses, anamnesisSvc)
	treatmentsSvc := treatments.NewService(rp.treatments, petsSvc, diagnosesSvc)
	quarantinesSvc := quarantines.NewService(rp.quarantines, petsSvc, sectorsSvc, usersSvc, notificationsSvc, log)

	if opts.Admin != nil {
		admin, created, err := usersSvc.EnsureAdmin(context.Background(), *opts.Admin)
		switch {
		case err != nil:
			log.Error("bootstrap admin", map[string]any{"error": err.Error()})
		case created:
			log.Info("admin account created", map[string]any{"user_id": admin.ID, "username": admin.Username})
		}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var verifier auth.AuthVerifier
	if opts.Tokens != nil {
		verifier = opts.Tokens
	}
	r.Use(middleware.AuthContext(verifier, usersSvc))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(api chi.Router) {
		public := api.With()
		if opts.AuthLimiter != nil {
			public = api.With(middleware.RateLimit(opts.AuthLimiter))
		}

		api.Group(func(private chi.Router) {
			private.Use(middleware.RequireAuth)

			// Rutas por módulo
			users.RegisterRoutes(public, private, usersSvc)
			pets.RegisterRoutes(private, petsSvc)
			slots.RegisterRoutes(private, slotsSvc)
			appointments.RegisterRoutes(private, appointmentsSvc, anamnesisSvc)
			healthupdates.RegisterRoutes(private, healthSvc)
			anamnesis.RegisterRoutes(private, anamnesisSvc)
			attachments.RegisterRoutes(private, attachmentsSvc)
			diagnoses.RegisterRoutes(private, diagnosesSvc)
			treatments.RegisterRoutes(private, treatmentsSvc)
			clinics.RegisterRoutes(private, clinicsSvc)
			quarantines.RegisterRoutes(private, quarantinesSvc)
			notifications.RegisterRoutes(private, notificationsSvc)

			private.Group(func(staff chi.Router) {
				staff.Use(middleware.RequireRoles(identity.RoleAdmin, identity.RoleVet))
				sectors.RegisterRoutes(staff, sectorsSvc)
			})

			if opts.Hub != nil {
				private.Get("/ws", opts.Hub.ServeWS)
			}
		})
	})

	return &App{
		Handler:       r,
		Appointments:  appointmentsSvc,
		Quarantines:   quarantinesSvc,
		Notifications: notificationsSvc,
	}
}
