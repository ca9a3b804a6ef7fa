package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/unclebandit/crmleopard-backend/internal/config"
	"github.com/unclebandit/crmleopard-backend/internal/controller"
	"github.com/unclebandit/crmleopard-backend/internal/db"
	"github.com/unclebandit/crmleopard-backend/internal/logger"
	"github.com/unclebandit/crmleopard-backend/internal/queue"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
	"github.com/unclebandit/crmleopard-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}
	logger.Init(cfg.LogLevel)

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer conn.Close()

	customerRepo := &repository.CustomerRepository{DB: conn}
	interactionRepo := &repository.InteractionRepository{DB: conn}
	opportunityRepo := &repository.OpportunityRepository{DB: conn}
	taskRepo := &repository.TaskRepository{DB: conn}
	fieldRepo := &repository.FieldRepository{DB: conn}
	analyticsRepo := &repository.AnalyticsRepository{DB: conn}

	// Reminder syncs go through the broker when one is configured; otherwise
	// an in-process queue handles them.
	var q queue.Queue
	if cfg.AMQPURL != "" {
		q = &queue.AMQPQueue{URL: cfg.AMQPURL}
		log.Info("reminder syncs routed to AMQP; run cmd/worker to process them")
	} else {
		inMem := queue.NewInMemoryQueue()
		queue.StartReminderSyncSubscriber(inMem, service.ReminderSyncTopic, taskRepo)
		q = inMem
	}

	reports := service.NewReportStore(time.Duration(cfg.ReportTTLHours) * time.Hour)

	customerService := &service.CustomerService{
		Repo:            customerRepo,
		Fields:          fieldRepo,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}
	interactionService := &service.InteractionService{Repo: interactionRepo, Customers: customerRepo}
	opportunityService := &service.OpportunityService{Repo: opportunityRepo, Customers: customerRepo}
	taskService := &service.TaskService{Repo: taskRepo, Customers: customerRepo, Queue: q}
	fieldService := &service.FieldService{Repo: fieldRepo}
	importService := &service.ImportService{Customers: customerRepo, Fields: fieldRepo, Reports: reports}
	exportService := &service.ExportService{Customers: customerRepo, Fields: fieldRepo}
	analyticsService := &service.AnalyticsService{Repo: analyticsRepo}

	customerController := &controller.CustomerController{CustomerService: customerService}
	interactionController := &controller.InteractionController{InteractionService: interactionService}
	opportunityController := &controller.OpportunityController{OpportunityService: opportunityService}
	taskController := &controller.TaskController{TaskService: taskService}
	fieldController := &controller.FieldController{FieldService: fieldService}
	importController := &controller.ImportController{ImportService: importService, Reports: reports}
	exportController := &controller.ExportController{ExportService: exportService}
	analyticsController := &controller.AnalyticsController{AnalyticsService: analyticsService}

	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", customerController.ListCustomers)
			r.Post("/", customerController.CreateCustomer)
			r.Get("/{customerID}", customerController.GetCustomer)
			r.Patch("/{customerID}", customerController.UpdateCustomer)
			r.Delete("/{customerID}", customerController.DeleteCustomer)

			r.Get("/{customerID}/interactions", interactionController.ListInteractions)
			r.Post("/{customerID}/interactions", interactionController.CreateInteraction)
			r.Get("/{customerID}/interactions/{id}", interactionController.GetInteraction)
			r.Patch("/{customerID}/interactions/{id}", interactionController.UpdateInteraction)
			r.Delete("/{customerID}/interactions/{id}", interactionController.DeleteInteraction)

			r.Get("/{customerID}/opportunities", opportunityController.ListOpportunities)
			r.Post("/{customerID}/opportunities", opportunityController.CreateOpportunity)
			r.Get("/{customerID}/opportunities/{id}", opportunityController.GetOpportunity)
			r.Patch("/{customerID}/opportunities/{id}", opportunityController.UpdateOpportunity)
			r.Delete("/{customerID}/opportunities/{id}", opportunityController.DeleteOpportunity)

			r.Get("/{customerID}/tasks", taskController.ListTasks)
			r.Post("/{customerID}/tasks", taskController.CreateTask)
			r.Get("/{customerID}/tasks/{id}", taskController.GetTask)
			r.Patch("/{customerID}/tasks/{id}", taskController.UpdateTask)
			r.Delete("/{customerID}/tasks/{id}", taskController.DeleteTask)
		})

		r.Route("/interactions", func(r chi.Router) {
			r.Get("/{id}", interactionController.GetInteraction)
			r.Patch("/{id}", interactionController.UpdateInteraction)
			r.Delete("/{id}", interactionController.DeleteInteraction)
		})
		r.Route("/opportunities", func(r chi.Router) {
			r.Get("/{id}", opportunityController.GetOpportunity)
			r.Patch("/{id}", opportunityController.UpdateOpportunity)
			r.Delete("/{id}", opportunityController.DeleteOpportunity)
		})
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/{id}", taskController.GetTask)
			r.Patch("/{id}", taskController.UpdateTask)
			r.Delete("/{id}", taskController.DeleteTask)
		})

		r.Get("/fields", fieldController.ListFields)
		r.Post("/fields", fieldController.CreateField)

		r.Post("/imports/customers/dry-run", importController.DryRun)
		r.Post("/imports/customers", importController.Commit)
		r.Get("/imports/reports/{token}", importController.DownloadReport)

		r.Get("/export/customers.csv", exportController.ExportCustomers)

		r.Get("/analytics/overview", analyticsController.Overview)
	})

	log.Info("server running on ", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
