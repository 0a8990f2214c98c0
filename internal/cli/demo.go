package cli

import (
	"fmt"
	"io"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/lineage/internal/logging"
	"github.com/mesh-intelligence/lineage/pkg/family"
	"github.com/mesh-intelligence/lineage/pkg/metrics"
	"github.com/mesh-intelligence/lineage/pkg/types"
)

// demoStep records one operation of the demo scenario.
type demoStep struct {
	Action string `json:"action"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// demoReport is the JSON form of the demo command.
type demoReport struct {
	Steps   []demoStep         `json:"steps"`
	Members []*types.Person    `json:"members"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Build a small family and print what the graph reports",
		Long: "Create head Alice, add her son Bob with an unknown father, marry Bob to\n" +
			"Carol, divorce them, and print each step and the resulting members.",
		Args: cobra.NoArgs,
		RunE: runDemo,
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadResolvedConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return userError("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	var reg *prometheus.Registry
	opts := []family.Option{family.WithLogger(logger)}
	if cfg.Metrics {
		reg = prometheus.NewRegistry()
		opts = append(opts, family.WithMetrics(metrics.New(reg)))
	}

	report, err := demoScenario(family.NewTree(opts...))
	if err != nil {
		logger.Error("demo failed", zap.Error(err))
		return sysError("demo: %w", err)
	}
	if reg != nil {
		report.Metrics, err = operationCounts(reg)
		if err != nil {
			return sysError("gather metrics: %w", err)
		}
	}

	if flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), report)
	}
	printDemo(cmd.OutOrStdout(), report)
	return nil
}

// demoScenario runs the fixed scenario against tree. An error means the
// graph did not behave as documented.
func demoScenario(tree types.FamilyTree) (*demoReport, error) {
	r := &demoReport{}
	step := func(action string, ok bool, detail string) error {
		r.Steps = append(r.Steps, demoStep{Action: action, OK: ok, Detail: detail})
		if !ok {
			return fmt.Errorf("%s failed", action)
		}
		return nil
	}

	alice, err := types.NewPerson("Alice", "female", civil.Date{Year: 1950, Month: 1, Day: 1}, civil.Date{})
	if err != nil {
		return nil, err
	}
	tree.SetHead(alice)
	if err := step("set head", tree.Len() == 1, alice.String()); err != nil {
		return r, err
	}

	bobBorn := civil.Date{Year: 1975, Month: 6, Day: 15}
	bob, err := types.NewPerson("Bob", "male", bobBorn, civil.Date{})
	if err != nil {
		return nil, err
	}
	if err := step("add child Bob to Alice", tree.AddChild(alice, nil, bob), "an unknown father is synthesized"); err != nil {
		return r, err
	}

	found, ok := tree.FindByIdentity("bob", bobBorn)
	if err := step("find Bob by name and birthday", ok && found.ID == bob.ID, bob.String()); err != nil {
		return r, err
	}

	siblings := tree.Siblings(bob)
	if err := step("list Bob's siblings", len(siblings) == 0, fmt.Sprintf("%d siblings", len(siblings))); err != nil {
		return r, err
	}

	married := tree.Marry(bob, &types.Person{Name: "Carol"})
	spouse, ok := tree.Spouse(bob)
	detail := ""
	if ok {
		detail = spouse.String()
	}
	if err := step("marry Bob to Carol", married && ok && spouse.Sex == types.SexFemale, detail); err != nil {
		return r, err
	}

	divorced := tree.Divorce(bob)
	exes := tree.ExPartners(bob)
	if err := step("divorce Bob", divorced && len(exes) == 1 && exes[0].ID == spouse.ID,
		"Carol stays in Bob's partner history"); err != nil {
		return r, err
	}

	if err := step("Alice and Bob are blood relatives", tree.AreBloodRelated(alice, bob), ""); err != nil {
		return r, err
	}
	if err := step("Carol is not a blood relative", !tree.AreBloodRelated(alice, spouse), ""); err != nil {
		return r, err
	}

	r.Members = tree.Members()
	return r, nil
}

// operationCounts flattens the operation counter into "operation/outcome"
// keys.
func operationCounts(reg prometheus.Gatherer) (map[string]float64, error) {
	mfs, err := reg.Gather()
	if err != nil {
		return nil, err
	}
	out := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "lineage_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var op, outcome string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "operation":
					op = lp.GetValue()
				case "outcome":
					outcome = lp.GetValue()
				}
			}
			out[op+"/"+outcome] = m.GetCounter().GetValue()
		}
	}
	return out, nil
}

func printDemo(w io.Writer, r *demoReport) {
	for _, s := range r.Steps {
		mark := "ok"
		if !s.OK {
			mark = "FAILED"
		}
		if s.Detail != "" {
			fmt.Fprintf(w, "%-36s %-6s %s\n", s.Action, mark, s.Detail)
		} else {
			fmt.Fprintf(w, "%-36s %s\n", s.Action, mark)
		}
	}

	fmt.Fprintf(w, "\nMembers (%d):\n", len(r.Members))
	for _, p := range r.Members {
		fmt.Fprintf(w, "  %s\n", p)
	}

	if len(r.Metrics) > 0 {
		keys := make([]string, 0, len(r.Metrics))
		for k := range r.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(w, "\nOperations:")
		for _, k := range keys {
			fmt.Fprintf(w, "  %-24s %v\n", k, r.Metrics[k])
		}
	}
}
