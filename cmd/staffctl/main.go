// cmd/staffctl/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/staffhubhq/staffhub/internal/auth"
	"github.com/staffhubhq/staffhub/internal/config"
	"github.com/staffhubhq/staffhub/internal/entitlement"
	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/repository"
	"github.com/staffhubhq/staffhub/internal/service"
)

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	upgradeCmd.Flags().String("org", "", "Organization ID")
	upgradeCmd.Flags().String("plan", "", "Target plan (starter, professional, enterprise)")
	upgradeCmd.MarkFlagRequired("org")
	upgradeCmd.MarkFlagRequired("plan")

	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(expireInvitationsCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(migrateCmd)
}

var rootCmd = &cobra.Command{
	Use:   "staffctl",
	Short: "staffctl is an operations CLI for the StaffHub backend",
	Long:  `staffctl runs administrative jobs against a StaffHub database: plan inspection, subscription changes, invitation sweeps and schema migration.`,
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List subscription plans and their limits",
	Run: func(cmd *cobra.Command, args []string) {
		plans := entitlement.DefaultPlans()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PLAN\tEMPLOYEES\tSTORAGE\tPRICE/MO")
		for _, name := range []model.SubscriptionPlan{model.PlanStarter, model.PlanProfessional, model.PlanEnterprise} {
			plan := plans[name]
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
				plan.Name,
				formatLimit(int64(plan.MaxEmployees)),
				formatLimit(plan.StorageLimit),
				plan.Price/100,
			)
		}
		w.Flush()
	},
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Move an organization to a different subscription plan",
	Run: func(cmd *cobra.Command, args []string) {
		orgFlag, _ := cmd.Flags().GetString("org")
		planFlag, _ := cmd.Flags().GetString("plan")

		orgID, err := uuid.Parse(orgFlag)
		if err != nil {
			log.Fatalf("Invalid organization ID: %v", err)
		}

		cfg := config.Load()
		db := openDatabase(cfg)

		orgRepo := repository.NewOrganizationRepository(db)
		userRepo := repository.NewUserRepository(db)
		resolver := entitlement.NewResolver(entitlement.DefaultPlans(), userRepo)
		tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)
		orgService := service.NewOrganizationService(orgRepo, userRepo, resolver, auth.NewPasswordHasher(), tokenManager, nil, cfg)

		expiresAt := time.Now().AddDate(0, 1, 0)
		org, err := orgService.Upgrade(context.Background(), orgID, model.SubscriptionPlan(planFlag), &expiresAt)
		if err != nil {
			log.Fatalf("Failed to upgrade organization: %v", err)
		}

		fmt.Printf("Organization %s is now on the %s plan (expires %s)\n",
			org.Name, org.SubscriptionPlan, expiresAt.Format("2006-01-02"))
	},
}

var expireInvitationsCmd = &cobra.Command{
	Use:   "expire-invitations",
	Short: "Mark overdue pending invitations as expired",
	Long:  `Sweeps pending invitations whose expiry has passed and stamps them expired. Reads stay correct without the sweep; this keeps list views and metrics honest.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		db := openDatabase(cfg)

		invRepo := repository.NewInvitationRepository(db)
		count, err := invRepo.ExpirePending(context.Background(), time.Now())
		if err != nil {
			log.Fatalf("Failed to expire invitations: %v", err)
		}

		fmt.Printf("Expired %d invitation(s)\n", count)
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Downgrade organizations with lapsed subscriptions",
	Long:  `Finds active organizations whose paid subscription expired and moves them back to the starter plan, clamping their limits and features.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		db := openDatabase(cfg)

		orgRepo := repository.NewOrganizationRepository(db)
		userRepo := repository.NewUserRepository(db)
		resolver := entitlement.NewResolver(entitlement.DefaultPlans(), userRepo)
		tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)
		orgService := service.NewOrganizationService(orgRepo, userRepo, resolver, auth.NewPasswordHasher(), tokenManager, nil, cfg)

		ctx := context.Background()
		orgs, err := orgRepo.FindExpiring(ctx)
		if err != nil {
			log.Fatalf("Failed to find expiring organizations: %v", err)
		}

		downgraded := 0
		for _, org := range orgs {
			if err := orgService.Downgrade(ctx, org.ID); err != nil {
				log.Printf("Failed to downgrade %s (%s): %v", org.Name, org.ID, err)
				continue
			}
			fmt.Printf("Downgraded %s to starter\n", org.Name)
			downgraded++
		}
		fmt.Printf("Reconciled %d of %d lapsed organization(s)\n", downgraded, len(orgs))
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		db := openDatabase(cfg)

		err := db.AutoMigrate(
			&model.Organization{},
			&model.User{},
			&model.UserInvitation{},
			&model.Department{},
			&model.Attendance{},
			&model.Project{},
			&model.ProjectMember{},
			&model.Task{},
			&model.TaskComment{},
			&model.Meeting{},
			&model.MeetingParticipant{},
			&model.Conversation{},
			&model.ConversationParticipant{},
			&model.Message{},
			&model.Call{},
			&model.CallParticipant{},
			&model.LeaveRequest{},
			&model.PerformanceReview{},
			&model.Payment{},
		)
		if err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}

		fmt.Println("Schema migrated successfully")
	},
}

func openDatabase(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	logLevel := gormlogger.Silent
	if verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func formatLimit(v int64) string {
	if v == model.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
