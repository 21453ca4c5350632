package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lotSizing/internal/baseline"
	"lotSizing/internal/bench"
	"lotSizing/internal/ga"
	"lotSizing/internal/gen"
	"lotSizing/internal/grasp"
	"lotSizing/internal/lotsizing"
	"lotSizing/internal/opt"
	"lotSizing/internal/sa"
	"lotSizing/internal/ts"
)

var (
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lotsize",
	Short: "Метаэвристики для однопродуктовой задачи планирования партий (C-SILSP)",
	Long: `lotsize генерирует тестовые инстансы задачи C-SILSP, решает их
метаэвристиками (GRASP, генетический алгоритм, имитация отжига,
табу-поиск) и сопоставляет результаты с точным решателем.

Решение кодируется бинарным вектором запусков y; оптимальный план
производства при данном y восстанавливается декодером.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("не удалось инициализировать логгер: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Флаги генерации
var (
	genOut  string
	genPlan string
	genSeed int64
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Сгенерировать сетку тестовых инстансов",
	Long: `Генерирует полную сетку классов (горизонт x доступность мощностей x
вариативность спроса), по каталогу на класс. Сетка и сиды фиксированы,
повторный запуск с тем же планом воспроизводит те же файлы.`,
	RunE: runGen,
}

// Флаги одиночного решения
var (
	solveSeed int64
	solveConv string
)

var solveCmd = &cobra.Command{
	Use:   "solve <файл-инстанса>",
	Short: "Решить один инстанс выбранным алгоритмом",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

// Флаги батча
var (
	batchRoot     string
	batchOut      string
	batchSeed     int64
	batchPerRunTO time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Прогнать алгоритм по всем инстансам каталога",
	Long: `Обходит каталоги классов под --root, решает каждый инстанс и пишет
summary.csv, aggregate.csv, run_info.json и по одному логу сходимости
на инстанс под <out>/logs. Сид каждого инстанса выводится из мастер-сида,
батч воспроизводим целиком.`,
	RunE: runBatch,
}

// Флаги сравнения
var (
	cmpSummary  string
	cmpBaseline string
	cmpOut      string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Сопоставить результаты эвристики с точным решателем",
	RunE:  runCompare,
}

// Флаги алгоритмов, общие для solve и batch
var (
	algoName string

	graspMaxIter int
	graspAlpha   float64
	graspLMax    int
	graspLimit   time.Duration

	gaPop   int
	gaGen   int
	gaElite int
	gaTour  int
	gaCx    float64
	gaMut   float64

	saIter          int
	saIterPerPeriod int
	saT0            float64
	saTmin          float64
	saAlpha         float64
	saNeigh         string

	tsIter          int
	tsIterPerPeriod int
	tsTenure        int
	tsTenureRand    int
	tsNeighbors     int
	tsNeigh         string
)

func addAlgoFlags(cmd *cobra.Command) {
	fl := cmd.Flags()

	fl.StringVar(&algoName, "algo", "GRASP", "алгоритм: GRASP | GA | SA | TS")

	// --- GRASP ---
	fl.IntVar(&graspMaxIter, "max-iter", 200, "количество стартов (итераций мультистарта)")
	fl.Float64Var(&graspAlpha, "alpha", 0.3, "параметр RCL: 0 — чисто жадно, 1 — чисто случайно")
	fl.IntVar(&graspLMax, "l-max", 10, "максимальная длина партии при конструировании (ограничивается горизонтом)")
	fl.DurationVar(&graspLimit, "time-limit", 30*time.Minute, "бюджет времени на один инстанс")

	// --- Генетический алгоритм ---
	fl.IntVar(&gaPop, "ga-pop", 120, "размер популяции")
	fl.IntVar(&gaGen, "ga-gen", 350, "количество поколений")
	fl.IntVar(&gaElite, "ga-elite", 4, "размер элиты (количество лучших особей)")
	fl.IntVar(&gaTour, "ga-tour", 5, "размер турнирной выборки")
	fl.Float64Var(&gaCx, "ga-cx", 0.90, "вероятность применения кроссовера")
	fl.Float64Var(&gaMut, "ga-mut", 0.20, "вероятность мутации")

	// --- Алгоритм имитации отжига ---
	fl.IntVar(&saIter, "sa-iter", 0, "общее количество итераций (0 => sa-iter-per-period × T)")
	fl.IntVar(&saIterPerPeriod, "sa-iter-per-period", 2000, "количество итераций на один период (используется, если sa-iter == 0)")
	fl.Float64Var(&saT0, "sa-t0", 2000.0, "начальная температура")
	fl.Float64Var(&saTmin, "sa-tmin", 0.5, "конечная температура")
	fl.Float64Var(&saAlpha, "sa-alpha", 0.995, "коэффициент охлаждения (alpha)")
	fl.StringVar(&saNeigh, "sa-neigh", "flip", "тип окрестности: flip | pair")

	// --- Табу-поиск ---
	fl.IntVar(&tsIter, "ts-iter", 0, "общее количество итераций (0 => ts-iter-per-period × T)")
	fl.IntVar(&tsIterPerPeriod, "ts-iter-per-period", 200, "количество итераций на один период (используется, если ts-iter == 0)")
	fl.IntVar(&tsTenure, "ts-tenure", 9, "длина табу (в итерациях)")
	fl.IntVar(&tsTenureRand, "ts-tenure-rand", 4, "случайное добавление к сроку табу [0..rand]")
	fl.IntVar(&tsNeighbors, "ts-neighbors", 40, "количество рассматриваемых соседей на итерацию")
	fl.StringVar(&tsNeigh, "ts-neigh", "flip", "тип окрестности: flip | pair")
}

// Фабрики

func newOptimizer(seed int64) (opt.Optimizer, error) {
	rng := rand.New(rand.NewSource(seed))

	switch strings.ToUpper(strings.TrimSpace(algoName)) {
	case "GRASP":
		cfg := grasp.Config{
			MaxIter:   graspMaxIter,
			Alpha:     graspAlpha,
			LMax:      graspLMax,
			TimeLimit: graspLimit,
		}
		s, err := grasp.New(cfg, rng)
		if err != nil {
			return nil, fmt.Errorf("конфликт в конфигурации GRASP: %w", err)
		}
		return s, nil
	case "GA":
		cfg := ga.Config{
			Population:     gaPop,
			Generations:    gaGen,
			Elite:          gaElite,
			TournamentSize: gaTour,
			CrossoverRate:  gaCx,
			MutationRate:   gaMut,
		}
		s, err := ga.New(cfg, rng)
		if err != nil {
			return nil, fmt.Errorf("конфликт в конфигурации генетического алгоритма: %w", err)
		}
		return s, nil
	case "SA":
		cfg := sa.Config{
			Iterations:          saIter,
			IterationsPerPeriod: saIterPerPeriod,
			InitialTemp:         saT0,
			FinalTemp:           saTmin,
			Alpha:               saAlpha,
			Neighborhood:        sa.Neighborhood(saNeigh),
		}
		s, err := sa.New(cfg, rng)
		if err != nil {
			return nil, fmt.Errorf("конфликт в конфигурации алгоритма имитации отжига: %w", err)
		}
		return s, nil
	case "TS":
		cfg := ts.Config{
			Iterations:          tsIter,
			IterationsPerPeriod: tsIterPerPeriod,
			TabuTenure:          tsTenure,
			TabuTenureRand:      tsTenureRand,
			NeighborsPerIter:    tsNeighbors,
			Neighborhood:        ts.Neighborhood(tsNeigh),
		}
		s, err := ts.New(cfg, rng)
		if err != nil {
			return nil, fmt.Errorf("конфликт в конфигурации табу-поиска: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("алгоритм не предоставлен в программе %q; доступные: GRASP, GA, SA, TS", algoName)
	}
}

// cancelOnSignal отменяет контекст по Ctrl+C или SIGTERM; солверы при этом
// возвращают лучший найденный результат.
func cancelOnSignal(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("получен сигнал остановки")
		cancel()
	}()
}

func runGen(cmd *cobra.Command, args []string) error {
	plan := gen.DefaultPlan()
	if genPlan != "" {
		p, err := gen.LoadPlan(genPlan)
		if err != nil {
			return err
		}
		plan = p
	}
	if cmd.Flags().Changed("seed") {
		plan.Seed = genSeed
	}

	logger.Info("генерация инстансов",
		zap.Ints("horizons", plan.Horizons),
		zap.Float64s("taus", plan.Taus),
		zap.Float64s("vars", plan.Vars),
		zap.Int("per_class", plan.PerClass),
		zap.Int64("seed", plan.Seed),
	)

	n, err := gen.Generate(plan, genOut)
	if err != nil {
		return err
	}

	fmt.Printf("Сгенерировано инстансов: %d (каталог %s)\n", n, genOut)
	return nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cancelOnSignal(cancel)

	inst, err := lotsizing.Load(args[0])
	if err != nil {
		return err
	}

	op, err := newOptimizer(solveSeed)
	if err != nil {
		return err
	}

	logger.Info("запуск решения",
		zap.String("file", args[0]),
		zap.String("algo", strings.ToUpper(algoName)),
		zap.Int("T", inst.T),
		zap.Int64("seed", solveSeed),
	)

	res, err := op.Solve(ctx, inst)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	nSetups := 0
	for _, v := range res.Setups {
		if v == 1 {
			nSetups++
		}
	}
	fmt.Printf("Стоимость: %.6f\n", res.Cost)
	fmt.Printf("Допустимо: %v\n", res.Feasible)
	fmt.Printf("Запусков производства: %d из %d периодов\n", nSetups, inst.T)
	fmt.Printf("Итераций: %d, оценок целевой функции: %d\n", res.Iterations, res.Evaluations)
	fmt.Printf("Время: %.3f с\n", res.Duration.Seconds())

	if solveConv != "" {
		if err := bench.WriteConvergenceCSV(solveConv, res.Convergence); err != nil {
			return fmt.Errorf("ошибка при записи лога сходимости: %w", err)
		}
		fmt.Println("Лог сходимости:", solveConv)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cancelOnSignal(cancel)

	// Конфигурация проверяется до старта, чтобы фабрика не падала в цикле.
	if _, err := newOptimizer(batchSeed); err != nil {
		return err
	}
	factory := func(seed int64) opt.Optimizer {
		op, err := newOptimizer(seed)
		if err != nil {
			panic(err)
		}
		return op
	}

	algo := strings.ToUpper(strings.TrimSpace(algoName))
	logger.Info("запуск батча",
		zap.String("algo", algo),
		zap.String("root", batchRoot),
		zap.Int64("master_seed", batchSeed),
		zap.Duration("per_run_timeout", batchPerRunTO),
	)

	runner := bench.Runner{
		Factory:       factory,
		MasterSeed:    batchSeed,
		PerRunTimeout: batchPerRunTO,
		Log:           logger,
	}

	rows, runErr := runner.Run(ctx, batchRoot, batchOut)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if len(rows) == 0 {
		logger.Warn("не решено ни одного инстанса", zap.String("root", batchRoot))
	}

	if err := bench.WriteSummaryCSV(filepath.Join(batchOut, "summary.csv"), rows); err != nil {
		return fmt.Errorf("ошибка при записи в CSV: %w", err)
	}
	if err := bench.WriteAggregateCSV(filepath.Join(batchOut, "aggregate.csv"), bench.Aggregate(rows)); err != nil {
		return fmt.Errorf("ошибка при записи в CSV: %w", err)
	}

	info := bench.CollectRunInfo(algo, batchSeed)
	if err := info.WriteJSON(filepath.Join(batchOut, "run_info.json")); err != nil {
		return err
	}

	logger.Info("батч завершён",
		zap.Int("instances", len(rows)),
		zap.String("out", batchOut),
		zap.String("run_id", info.ID),
	)

	// Прерванный батч: частичные результаты уже сохранены, код выхода ненулевой.
	return runErr
}

func runCompare(cmd *cobra.Command, args []string) error {
	rows, err := bench.LoadSummaryCSV(cmpSummary)
	if err != nil {
		return err
	}
	records, err := baseline.LoadRecords(cmpBaseline)
	if err != nil {
		return err
	}

	comps := baseline.Compare(rows, records)
	gaps := baseline.AggregateGaps(comps)

	if err := baseline.WriteComparisonCSV(filepath.Join(cmpOut, "comparison.csv"), comps); err != nil {
		return fmt.Errorf("ошибка при записи в CSV: %w", err)
	}
	if err := baseline.WriteGapCSV(filepath.Join(cmpOut, "gaps_by_class.csv"), gaps); err != nil {
		return fmt.Errorf("ошибка при записи в CSV: %w", err)
	}

	matched := 0
	for _, c := range comps {
		if c.GapToBaseline != nil {
			matched++
		}
	}
	fmt.Printf("Строк эвристики: %d, сопоставлено с базой: %d\n", len(comps), matched)
	for _, g := range gaps {
		if g.Matched == 0 {
			fmt.Printf("  %s: зазор не определён (строк: %d)\n", g.Class, g.N)
			continue
		}
		fmt.Printf("  %s: средний зазор %.4f, максимальный %.4f (n=%d)\n", g.Class, g.MeanGap, g.MaxGap, g.Matched)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробное логирование (debug)")

	genCmd.Flags().StringVar(&genOut, "out", "instances", "каталог для сгенерированных инстансов")
	genCmd.Flags().StringVar(&genPlan, "plan", "", "YAML-файл плана генерации (по умолчанию встроенная сетка)")
	genCmd.Flags().Int64Var(&genSeed, "seed", gen.DefaultPlan().Seed, "базовый сид генерации (переопределяет план)")

	solveCmd.Flags().Int64Var(&solveSeed, "seed", 2025, "сид генератора случайных чисел")
	solveCmd.Flags().StringVar(&solveConv, "conv", "", "путь к CSV-логу сходимости (не пишется, если пусто)")
	addAlgoFlags(solveCmd)

	batchCmd.Flags().StringVar(&batchRoot, "root", "instances", "каталог с инстансами (<root>/<класс>/<файл>.txt)")
	batchCmd.Flags().StringVar(&batchOut, "out", "artifacts", "каталог результатов")
	batchCmd.Flags().Int64Var(&batchSeed, "seed", 2025, "мастер-сид: из него порождаются сиды инстансов")
	batchCmd.Flags().DurationVar(&batchPerRunTO, "per-run-timeout", 0, "таймаут одного запуска; 0 — без ограничения")
	addAlgoFlags(batchCmd)

	compareCmd.Flags().StringVar(&cmpSummary, "summary", "artifacts/summary.csv", "summary.csv батча эвристики")
	compareCmd.Flags().StringVar(&cmpBaseline, "baseline", "", "CSV с результатами точного решателя")
	compareCmd.Flags().StringVar(&cmpOut, "out", "artifacts", "каталог для comparison.csv и gaps_by_class.csv")
	compareCmd.MarkFlagRequired("baseline")

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(compareCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}
