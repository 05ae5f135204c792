package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/locvowork/hr_data_bridge/internal/benchmark"
	"github.com/locvowork/hr_data_bridge/internal/config"
	"github.com/locvowork/hr_data_bridge/internal/database"
	"github.com/locvowork/hr_data_bridge/internal/logger"
)

// Named queries covering the hot paths of the HTTP API.
var presets = map[string]string{
	"list_employees":    "SELECT employee_id, employee_name, department, salary, hire_date FROM employees ORDER BY employee_id ASC LIMIT 100",
	"employee_by_id":    "SELECT employee_id, employee_name, department, salary, hire_date FROM employees WHERE employee_id = 1",
	"department_budget": "SELECT COUNT(*), COALESCE(SUM(salary), 0) FROM employees WHERE department = 'IT'",
}

func main() {
	// Define flags
	preset := flag.String("preset", "list_employees", "Named query: "+strings.Join(presetNames(), ", "))
	query := flag.String("query", "", "Raw SQL to benchmark (overrides preset)")
	iterations := flag.Int("iterations", 100, "Iterations per run (per user in concurrent mode)")
	users := flag.Int("users", 0, "Simulated concurrent users; 0 runs sequentially")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("HR Data Bridge Benchmark")
	fmt.Println(strings.Repeat("=", 50))

	if err := config.LoadEnvConfig(); err != nil {
		log.Fatal(err)
	}
	env := config.DefaultEnvConfig
	logger.InitLogging(env.LOG_FILE_PATH)

	db, err := database.NewPostgresDB(ctx, database.Config{
		Host:            env.DB_HOST,
		Port:            env.DB_PORT,
		User:            env.DB_USER,
		Password:        env.DB_PASSWORD,
		DBName:          env.DB_NAME,
		SSLMode:         env.DB_SSL_MODE,
		MaxOpenConns:    env.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    env.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: env.DB_CONN_MAX_LIFETIME,
	})
	if err != nil {
		logger.ErrorLog(ctx, "Failed to connect to database: %v", err)
		log.Fatal(err)
	}
	defer db.Close()

	name := *preset
	sqlText := presets[*preset]
	if *query != "" {
		name = "custom"
		sqlText = *query
	}
	if sqlText == "" {
		log.Fatalf("unknown preset %q, choose one of: %s", *preset, strings.Join(presetNames(), ", "))
	}

	op := benchmark.QueryOp(db, sqlText)

	var result *benchmark.Result
	if *users > 0 {
		fmt.Printf("Running %q with %d users x %d iterations...\n", name, *users, *iterations)
		result, err = benchmark.RunConcurrent(ctx, name, *users, *iterations, op)
	} else {
		fmt.Printf("Running %q for %d iterations...\n", name, *iterations)
		result, err = benchmark.Run(ctx, name, *iterations, op)
	}
	if err != nil {
		logger.ErrorLog(ctx, "Benchmark failed: %v", err)
		log.Fatal(err)
	}

	fmt.Println(result)
}

func presetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
