// Package console is the interactive front end of the tree: it reads menu
// choices and points from a reader and writes the results as text.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-sod/kdtree/internal/geom"
	"github.com/go-sod/kdtree/internal/logging"
	"github.com/go-sod/kdtree/internal/metric"
	"github.com/go-sod/kdtree/pkg/container/kdtree"
)

const (
	separator = "**********************"

	msgNotFound    = "Node not found."
	msgNoRoot      = "Cannot make this operation, root is undefined."
	msgInvalid     = "Invalid input."
	msgQuit        = "Quitting Application..."
	msgEmptyRange  = "No nodes in range."
	msgWrongChoice = "Unknown operation."
)

type operation int

const (
	opExit operation = iota
	opGet
	opInsert
	opFindMin
	opRemove
	opNearest
	opRange
	opPrint
)

var menu = []struct {
	op    operation
	title string
}{
	{opGet, "Get Node"},
	{opInsert, "Insert"},
	{opFindMin, "Find Min From Node, Given Axis"},
	{opRemove, "Remove"},
	{opNearest, "Find Nearest Neighbor to Node"},
	{opRange, "Find Nodes in Range"},
	{opPrint, "Print Tree"},
	{opExit, "Exit Application"},
}

func (o operation) String() string {
	switch o {
	case opGet:
		return "get"
	case opInsert:
		return "insert"
	case opFindMin:
		return "find_min"
	case opRemove:
		return "remove"
	case opNearest:
		return "nearest"
	case opRange:
		return "range"
	case opPrint:
		return "print"
	default:
		return "exit"
	}
}

type ProvideFn func(in io.Reader, out io.Writer) (*App, error)

type Option func(*App) error

// WithDimensions creates the tree up front so the dimensions prompt is
// skipped. Zero keeps the prompt.
func WithDimensions(k int) Option {
	return func(a *App) error {
		if k == 0 {
			return nil
		}
		tree, err := kdtree.New(k)
		if err != nil {
			return fmt.Errorf("unable create tree: %w", err)
		}
		a.tree = tree
		return nil
	}
}

func WithSession(id uuid.UUID) Option {
	return func(a *App) error {
		a.session = id
		return nil
	}
}

// App holds everything the interactive loop needs between two commands.
type App struct {
	tree    *kdtree.Tree
	in      *reader
	out     io.Writer
	session uuid.UUID
	logger  *zap.SugaredLogger
}

func New(in io.Reader, out io.Writer, opts ...Option) (*App, error) {
	a := &App{
		in:      newReader(in),
		out:     out,
		session: uuid.New(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *App) Tree() *kdtree.Tree {
	return a.tree
}

// Run serves commands until the exit command, the end of the input or the
// cancellation of ctx.
func (a *App) Run(ctx context.Context) error {
	a.logger = logging.FromContext(ctx).With("session", a.session.String())
	defer a.in.Close()
	a.println("====||| KDTree Application |||====")
	a.println()

	if a.tree == nil {
		if err := a.initTree(ctx); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	a.logger.Infof("console started with a %d dimensional tree", a.tree.Dimensions())

	for ctx.Err() == nil {
		a.printMenu()
		choice, err := a.in.Int(ctx)
		a.println(separator)
		if errors.Is(err, io.EOF) || (err != nil && ctx.Err() != nil) {
			return nil
		}
		if err != nil {
			if !errors.Is(err, errInvalidInput) {
				return fmt.Errorf("read menu choice: %w", err)
			}
			a.println(msgInvalid)
			continue
		}

		op := operation(choice)
		if op == opExit {
			a.println(msgQuit)
			return nil
		}
		if err := a.dispatch(ctx, op); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			if !errors.Is(err, errInvalidInput) {
				return err
			}
			a.logger.Debugw("rejected input", "operation", op.String(), "error", err)
			a.println(msgInvalid)
		}
	}
	a.logger.Info("console stopped by context")
	return nil
}

func (a *App) initTree(ctx context.Context) error {
	a.println("Initialize the KDTree. How many dimensions? Must be 2 or 3")
	for {
		k, err := a.in.Int(ctx)
		if errors.Is(err, errInvalidInput) {
			continue
		}
		if err != nil {
			return err
		}
		if k < 2 || k > 3 {
			continue
		}

		a.printf("Creating KDTree with %d dimensions.\n", k)
		tree, err := kdtree.New(k)
		if err != nil {
			return fmt.Errorf("unable create tree: %w", err)
		}
		a.tree = tree
		return nil
	}
}

func (a *App) dispatch(ctx context.Context, op operation) error {
	switch op {
	case opInsert:
		return a.insert(ctx)
	case opGet, opFindMin, opRemove, opNearest, opRange, opPrint:
	default:
		a.println(msgWrongChoice)
		return nil
	}

	if a.tree.Root() == nil {
		a.record(ctx, op, metric.ResultNotFound, time.Now())
		a.println(msgNoRoot)
		return nil
	}

	switch op {
	case opGet:
		return a.get(ctx)
	case opFindMin:
		return a.findMin(ctx)
	case opRemove:
		return a.remove(ctx)
	case opNearest:
		return a.nearest(ctx)
	case opRange:
		return a.rangeSearch(ctx)
	default:
		start := time.Now()
		a.printTree()
		a.record(ctx, opPrint, metric.ResultFound, start)
		return nil
	}
}

func (a *App) readPoint(ctx context.Context) ([]float64, error) {
	a.println("Enter point:")
	return a.in.Point(ctx, a.tree.Dimensions())
}

func (a *App) readAxis(ctx context.Context) (int, error) {
	a.println("Enter dimension to find minimum;")
	for {
		a.printf("Dimension must be between 0 and %d\n", a.tree.Dimensions()-1)
		axis, err := a.in.Int(ctx)
		if errors.Is(err, errInvalidInput) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if axis >= 0 && axis < a.tree.Dimensions() {
			return axis, nil
		}
	}
}

func (a *App) get(ctx context.Context) error {
	point, err := a.readPoint(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	node, err := a.tree.Lookup(point)
	a.record(ctx, opGet, metric.ResultOf(node != nil, err), start)
	if err != nil {
		return a.failed(opGet, err)
	}
	a.printNode(node)
	return nil
}

func (a *App) insert(ctx context.Context) error {
	point, err := a.readPoint(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = a.tree.Insert(point)
	a.record(ctx, opInsert, metric.ResultOf(true, err), start)
	if err != nil {
		return a.failed(opInsert, err)
	}
	a.logger.Debugw("point inserted", "point", geom.Point(point).String(), "size", a.tree.Len())
	a.println(separator)
	a.printTree()
	return nil
}

func (a *App) findMin(ctx context.Context) error {
	point, err := a.readPoint(ctx)
	if err != nil {
		return err
	}
	axis, err := a.readAxis(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	from, err := a.tree.Lookup(point)
	if err != nil {
		a.record(ctx, opFindMin, metric.ResultError, start)
		return a.failed(opFindMin, err)
	}
	// An unknown point searches the whole tree.
	node, err := a.tree.FindMin(from, axis)
	a.record(ctx, opFindMin, metric.ResultOf(node != nil, err), start)
	if err != nil {
		return a.failed(opFindMin, err)
	}
	a.printNode(node)
	return nil
}

func (a *App) remove(ctx context.Context) error {
	point, err := a.readPoint(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	before := a.tree.Len()
	_, err = a.tree.Remove(point)
	removed := a.tree.Len() < before
	a.record(ctx, opRemove, metric.ResultOf(removed, err), start)
	if err != nil {
		return a.failed(opRemove, err)
	}
	if !removed {
		a.println(msgNotFound)
	}
	a.logger.Debugw("remove finished", "point", geom.Point(point).String(), "removed", removed, "size", a.tree.Len())
	a.println(separator)
	a.printTree()
	return nil
}

func (a *App) nearest(ctx context.Context) error {
	point, err := a.readPoint(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	target, err := a.tree.Lookup(point)
	if err != nil {
		a.record(ctx, opNearest, metric.ResultError, start)
		return a.failed(opNearest, err)
	}
	if target == nil {
		a.record(ctx, opNearest, metric.ResultNotFound, start)
		a.println(msgNotFound)
		return nil
	}

	node, err := a.tree.Nearest(target.Point())
	a.record(ctx, opNearest, metric.ResultOf(node != nil, err), start)
	if err != nil {
		return a.failed(opNearest, err)
	}
	a.printNode(node)
	if node != nil {
		if distance, err := geom.EuclideanDistance(target.Point(), node.Point()); err == nil {
			a.printf("Distance: %g\n", distance)
		}
	}
	return nil
}

func (a *App) rangeSearch(ctx context.Context) error {
	a.println("Enter point of origin for your range search.")
	origin, err := a.readPoint(ctx)
	if err != nil {
		return err
	}

	prompts := []string{"Enter width of range", "Enter height of range", "Enter length of range"}
	extents := make([]float64, a.tree.Dimensions())
	for axis := range extents {
		if axis < len(prompts) {
			a.println(prompts[axis])
		}
		if extents[axis], err = a.in.Float(ctx); err != nil {
			return err
		}
	}

	start := time.Now()
	nodes, err := a.tree.RangeSearch(origin, extents...)
	a.record(ctx, opRange, metric.ResultOf(len(nodes) > 0, err), start)
	if err != nil {
		return a.failed(opRange, err)
	}
	if len(nodes) == 0 {
		a.println(msgEmptyRange)
		return nil
	}
	for _, node := range nodes {
		a.printNode(node)
	}
	return nil
}

func (a *App) failed(op operation, err error) error {
	a.logger.Errorw("operation failed", "operation", op.String(), "error", err)
	a.printf("Operation not possible: %v\n", err)
	return nil
}

func (a *App) record(ctx context.Context, op operation, result string, start time.Time) {
	elapsed := time.Since(start)
	a.logger.Debugw("operation", "operation", op.String(), "result", result, "elapsed", elapsed)
	metric.Record(ctx, op.String(), result, elapsed, a.tree.Len())
}

func (a *App) printMenu() {
	a.println(separator)
	for _, item := range menu {
		a.printf("[%d]: %s\n", item.op, item.title)
	}
}

func (a *App) printNode(node *kdtree.Node) {
	if node == nil {
		a.println(msgNotFound)
		return
	}
	a.printf("Node found: %s\n", node.Point())
}

func (a *App) printTree() {
	if a.tree.Root() == nil {
		a.println("(empty)")
		return
	}
	a.printf("%s", renderTree(a.tree.Root()))
}

func (a *App) println(args ...interface{}) {
	_, _ = fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
