package formula

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/logging"
)

// MaxFormulaLength bounds what a catalog entry may ask us to compile
const MaxFormulaLength = 512

// helpers available inside formulas; every other builtin is disabled
var allowedBuiltins = []string{"max", "min", "abs", "floor", "ceil", "round"}

// EvaluatorConfig holds dependencies for the evaluator
type EvaluatorConfig struct {
	Logger *zap.Logger
}

// Evaluator compiles formulas once per context shape and runs them
type Evaluator struct {
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[cacheKey]*compiled
}

type cacheKey struct {
	env     reflect.Type
	formula string
}

type compiled struct {
	program *vm.Program
	err     error
}

// NewEvaluator creates a new formula evaluator
func NewEvaluator(cfg *EvaluatorConfig) *Evaluator {
	if cfg == nil {
		cfg = &EvaluatorConfig{}
	}
	return &Evaluator{
		logger: logging.OrNop(cfg.Logger),
		cache:  make(map[cacheKey]*compiled),
	}
}

// Evaluate runs formula against env, which must be a SelfEnv or VersusEnv.
// A formula that fails to compile keeps failing without being recompiled.
func (e *Evaluator) Evaluate(formula string, env any) (float64, error) {
	program, err := e.program(formula, env)
	if err != nil {
		return 0, err
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", formula, err)
	}

	v, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("evaluate %q: result %T is not a number", formula, out)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("evaluate %q: result is not finite", formula)
	}
	return v, nil
}

// EvaluateOr returns fallback instead of an error and logs the failure
func (e *Evaluator) EvaluateOr(formula string, env any, fallback float64, fields ...zap.Field) float64 {
	v, err := e.Evaluate(formula, env)
	if err != nil {
		e.logger.Warn("formula evaluation failed, using fallback",
			append(fields,
				zap.String("formula", formula),
				zap.Float64("fallback", fallback),
				zap.Error(err))...)
		return fallback
	}
	return v
}

// Check compiles formula against env without running it
func (e *Evaluator) Check(formula string, env any) error {
	_, err := e.program(formula, env)
	return err
}

func (e *Evaluator) program(formula string, env any) (*vm.Program, error) {
	key := cacheKey{env: reflect.TypeOf(env), formula: formula}

	e.mu.RLock()
	c, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return c.program, c.err
	}

	c = compile(formula, env)

	e.mu.Lock()
	e.cache[key] = c
	e.mu.Unlock()

	return c.program, c.err
}

func compile(formula string, env any) *compiled {
	trimmed := strings.TrimSpace(formula)
	if trimmed == "" {
		return &compiled{err: fmt.Errorf("empty formula")}
	}
	if len(trimmed) > MaxFormulaLength {
		return &compiled{err: fmt.Errorf("formula longer than %d characters", MaxFormulaLength)}
	}

	opts := []expr.Option{
		expr.Env(env),
		expr.AsFloat64(),
		expr.DisableAllBuiltins(),
	}
	for _, name := range allowedBuiltins {
		opts = append(opts, expr.EnableBuiltin(name))
	}

	program, err := expr.Compile(trimmed, opts...)
	if err != nil {
		return &compiled{err: fmt.Errorf("compile %q: %w", formula, err)}
	}
	return &compiled{program: program}
}
