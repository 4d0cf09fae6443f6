package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/assessment"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/config"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/database"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/likes"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/planner"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/shopping"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/storage"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/store"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/usage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize plan generator: %v", err)
	}
	if closer, ok := generator.(io.Closer); ok {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	planRepo := plan.NewRepository(db.SQL)
	shopRepo := shopping.NewRepository(db.SQL)

	blobs, err := storage.NewBlobStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	st := store.New(
		blobs,
		planner.NewClient(generator, nil),
		likes.NewClient(cfg),
		usage.NewClient(cfg),
		planRepo,
		store.Options{
			PlanLimit:         cfg.FreePlanLimit,
			UsageRefreshDelay: cfg.UsageRefreshDelay,
		},
	)
	if err := st.Load(); err != nil {
		log.Fatalf("Failed to restore local state: %v", err)
	}

	if id := os.Getenv("MEALFIT_USER_ID"); id != "" && st.UserID() == "" {
		if err := st.SetUserID(id); err != nil {
			log.Fatalf("Failed to store user id: %v", err)
		}
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		if err := runPlan(ctx, st); err != nil {
			log.Fatalf("Plan generation failed: %v", err)
		}
	case "regenerate":
		regenCmd := flag.NewFlagSet("regenerate", flag.ExitOnError)
		index := regenCmd.Int("meal", 0, "Index of the meal to swap out")
		regenCmd.Parse(os.Args[2:])

		if err := runRegenerate(st, *index); err != nil {
			log.Fatalf("Regeneration failed: %v", err)
		}
	case "shopping-list":
		if err := runShoppingList(ctx, st, planRepo, shopRepo); err != nil {
			log.Fatalf("Shopping list failed: %v", err)
		}
	case "history":
		historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
		limit := historyCmd.Int("n", 5, "Number of plans to list")
		historyCmd.Parse(os.Args[2:])

		if err := runHistory(ctx, st, planRepo, *limit); err != nil {
			log.Fatalf("History failed: %v", err)
		}
	case "credits":
		st.RefreshUsage(ctx)
		c := st.Credits()
		fmt.Printf("Plans used this period: %d\nRemaining: %d\n", c.CountThisPeriod, c.Remaining())
	case "reset":
		if err := st.Reset(); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		fmt.Println("All local data removed.")
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func newGenerator(ctx context.Context, cfg *config.Config) (planner.Generator, error) {
	if cfg.PlannerBackend == "gemini" {
		return planner.NewGeminiGenerator(ctx, cfg)
	}
	return planner.NewRemoteGenerator(cfg), nil
}

func runPlan(ctx context.Context, st *store.Store) error {
	form := st.Form()
	for s := assessment.StepIntro; s < assessment.StepCount; s++ {
		if !assessment.StepComplete(s, form) {
			return fmt.Errorf("assessment incomplete at the %s step, finish it with the bot first", s)
		}
	}

	p, err := st.GeneratePlan(ctx)
	if err != nil {
		return err
	}
	printPlan(p)
	return nil
}

func runRegenerate(st *store.Store, index int) error {
	p := st.Plan()
	if p == nil {
		return store.ErrNoActivePlan
	}
	if index < 0 || index >= len(p.PerfectDay) {
		return fmt.Errorf("meal index %d out of range, plan has %d meals", index, len(p.PerfectDay))
	}
	meal := p.PerfectDay[index]

	newName, err := st.RegenerateMeal(index, meal.Slot, meal.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Swapped %q for %q.\n\n", meal.Name, newName)
	printPlan(st.Plan())
	return nil
}

func runShoppingList(ctx context.Context, st *store.Store, planRepo *plan.Repository, shopRepo *shopping.Repository) error {
	p := st.Plan()
	if p == nil {
		return store.ErrNoActivePlan
	}

	items := shopping.Derive(p)
	for _, cat := range shopping.Categories() {
		var catItems []string
		for _, item := range items {
			if shopping.Categorize(item) == cat {
				catItems = append(catItems, item)
			}
		}
		if len(catItems) == 0 {
			continue
		}
		fmt.Printf("%s:\n", shopping.CategoryLabel(cat))
		for _, item := range catItems {
			fmt.Printf("  - %s\n", item)
		}
	}

	// Persist against the latest saved plan so the bot and CLI share one list.
	userID := st.UserID()
	if userID == "" {
		return nil
	}
	record, err := planRepo.Latest(ctx, userID)
	if err != nil || record == nil {
		return err
	}
	if _, err := shopRepo.Save(ctx, userID, record.ID, items); err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}
	return nil
}

func runHistory(ctx context.Context, st *store.Store, planRepo *plan.Repository, limit int) error {
	userID := st.UserID()
	if userID == "" {
		return fmt.Errorf("no user id set, export MEALFIT_USER_ID")
	}

	records, err := planRepo.ListRecent(ctx, userID, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No saved plans yet.")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  %s  %d kcal  (%s)\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Name, r.Calories, r.ID)
	}
	return nil
}

func printPlan(p *plan.Plan) {
	fmt.Printf("Daily target: %d kcal (P %s / C %s / G %s)\n\n", p.Calories, p.Macros.Protein, p.Macros.Carbs, p.Macros.Fats)
	for i, meal := range p.PerfectDay {
		fmt.Printf("[%d] %s: %s (%d kcal)\n", i, meal.Slot, meal.Name, meal.Cals)
		if meal.Desc != "" {
			fmt.Printf("    %s\n", meal.Desc)
		}
	}
	if len(p.Insights) > 0 {
		fmt.Println()
		for _, insight := range p.Insights {
			fmt.Printf("* %s\n", insight)
		}
	}
}

func printUsage() {
	fmt.Println("Usage: mealfit <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan               Generate a plan from the saved assessment")
	fmt.Println("  regenerate         Swap one meal of the active plan (-meal N)")
	fmt.Println("  shopping-list      Print and save the shopping list for the active plan")
	fmt.Println("  history            List recently saved plans (-n N)")
	fmt.Println("  credits            Show plan credits for the current period")
	fmt.Println("  reset              Remove all local data")
}
