package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_available_slots"
	getDayAppointmentsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_day_appointments"
	getLoyaltyAccountHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_loyalty_account"
	getUserAppointmentsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_user_appointments"
	rescheduleAppointmentHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/reschedule_appointment"
	scheduleAdminHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/schedule_admin"
	stripeWebhookHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/stripe_webhook"
	updateStatusHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SalonBookingService/internal/config"
	appointmentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	paymentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/payment"
	scheduleRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SalonBookingService/internal/integrations/mailer"
	"github.com/m04kA/SalonBookingService/internal/integrations/paygate"
	appointmentsService "github.com/m04kA/SalonBookingService/internal/service/appointments"
	scheduleService "github.com/m04kA/SalonBookingService/internal/service/schedule"
	completeAppointmentUC "github.com/m04kA/SalonBookingService/internal/usecase/complete_appointment"
	createAppointmentUC "github.com/m04kA/SalonBookingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SalonBookingService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SalonBookingService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SalonBookingService/migrations"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/logger"
	"github.com/m04kA/SalonBookingService/pkg/metrics"
	"github.com/m04kA/SalonBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SalonBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SalonBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if err := migrations.Up(db); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// Инициализируем интеграционных клиентов
	payGateClient := paygate.NewClient(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		cfg.Stripe.SuccessURL,
		cfg.Stripe.CancelURL,
		log,
	)

	// Без API-ключа клиент работает вхолостую и письма не шлёт
	mailerAPIKey := ""
	if cfg.Email.Enabled {
		mailerAPIKey = cfg.Email.APIKey
	}
	mailerClient := mailer.NewClient(mailerAPIKey, cfg.Email.FromName, cfg.Email.From, log)
	log.Info("Integration clients initialized (stripe currency=%s, email enabled=%t)",
		cfg.Stripe.Currency, cfg.Email.Enabled)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		catalogRepository     *catalogRepo.Repository
		paymentRepository     *paymentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		appointmentRepository = appointmentRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		catalogRepository,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		scheduleSvc,
		cfg.Booking.StaffAssignment,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		paymentRepository,
		scheduleSvc,
		payGateClient,
		mailerClient,
		txMgr,
		cfg.Booking.StaffAssignment,
		cfg.Stripe.Currency,
		log,
	)

	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		scheduleSvc,
		txMgr,
		cfg.Booking.StaffAssignment,
		log,
	)

	completeAppointmentUseCase := completeAppointmentUC.NewUseCase(
		appointmentRepository,
		paymentRepository,
		txMgr,
		cfg.Loyalty.EarnRate,
		log,
	)

	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		paymentRepository,
		payGateClient,
		completeAppointmentUseCase,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateStatus := updateStatusHandler.NewHandler(appointmentsSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getDayAppointments := getDayAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getLoyaltyAccount := getLoyaltyAccountHandler.NewHandler(appointmentsSvc, log)
	scheduleAdmin := scheduleAdminHandler.NewHandler(scheduleSvc, log)
	stripeWebhook := stripeWebhookHandler.NewHandler(
		payGateClient,
		paymentRepository,
		appointmentRepository,
		txMgr,
		log,
	)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов для записи
	api.HandleFunc("/appointments/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Вебхуки платёжного шлюза (авторизация - подпись Stripe)
	api.HandleFunc("/webhooks/stripe", stripeWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Записи на день (для администратора салона)
	protected.HandleFunc("/appointments", getDayAppointments.Handle).Methods(http.MethodGet)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Перенос записи на другое время
	protected.HandleFunc("/appointments/{appointmentId}", rescheduleAppointment.Handle).Methods(http.MethodPut)

	// Смена статуса записи (для администратора салона)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPut)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// История записей пользователя
	protected.HandleFunc("/users/{userId}/appointments", getUserAppointments.Handle).Methods(http.MethodGet)

	// Баланс баллов лояльности
	protected.HandleFunc("/users/{userId}/loyalty", getLoyaltyAccount.Handle).Methods(http.MethodGet)

	// --- Расписание салона (для администратора) ---
	// Недельное расписание салона
	protected.HandleFunc("/store-hours", scheduleAdmin.HandleGetStoreHours).Methods(http.MethodGet)
	protected.HandleFunc("/store-hours", scheduleAdmin.HandleUpdateStoreHours).Methods(http.MethodPut)

	// Исключения: праздники, сокращённые дни
	protected.HandleFunc("/store-exceptions", scheduleAdmin.HandleCreateException).Methods(http.MethodPost)
	protected.HandleFunc("/store-exceptions/{date}", scheduleAdmin.HandleDeleteException).Methods(http.MethodDelete)

	// Расписание мастера
	protected.HandleFunc("/staff/{staffId}/schedule", scheduleAdmin.HandleGetStaffSchedule).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/schedule", scheduleAdmin.HandleUpdateStaffSchedule).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
