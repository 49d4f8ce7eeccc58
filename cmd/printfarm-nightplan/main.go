// Command printfarm-nightplan prints tonight's preload plan for operators
// heading out the door. Same projection the API serves, no HTTP involved
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"printfarm/internal/core/nightwindow"
	"printfarm/internal/platform/config"
	"printfarm/internal/platform/logger"
	"printfarm/internal/platform/store"

	npdomain "printfarm/internal/services/api/nightplan/domain"
	nprepo "printfarm/internal/services/api/nightplan/repo"
	npsvc "printfarm/internal/services/api/nightplan/service"
)

func main() {
	at := flag.String("at", "", "reference instant, RFC3339 (default now)")
	flag.Parse()

	l := logger.Get()

	ref := time.Now()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			l.Fatal().Err(err).Str("at", *at).Msg("invalid -at, want RFC3339")
		}
		ref = parsed
	}

	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	npCfg := root.Prefix("NIGHTPLAN_")

	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "printfarm-nightplan",
			PG: store.PGConfig{
				Enabled:  true,
				URL:      pgCfg.MustString("DBURL"),
				MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 2)),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	window := nightwindow.Config{
		StartHour: npCfg.MayInt("START_HOUR", nightwindow.DefaultConfig().StartHour),
		EndHour:   npCfg.MayInt("END_HOUR", nightwindow.DefaultConfig().EndHour),
	}
	policy := nightwindow.Policy{
		CountFirstCycle: npCfg.MayBool("COUNT_FIRST_CYCLE", false),
	}

	svc := npsvc.New(st.PG, nprepo.NewPG(), window, policy, *l)

	plan, err := svc.ComputeNightPlan(context.Background(), ref)
	if err != nil {
		l.Fatal().Err(err).Msg("night plan failed")
	}

	printPlan(plan)
}

func printPlan(plan npdomain.Plan) {
	if !plan.HasNightWork {
		fmt.Println("no night work planned")
		return
	}

	fmt.Printf("night window %s to %s (%.1fh)\n",
		plan.Window.Start.Format("Mon 15:04"),
		plan.Window.End.Format("Mon 15:04"),
		plan.TotalWindowHours,
	)
	fmt.Printf("plates to stage: %d\n\n", plan.TotalPlatesNeeded)

	for _, p := range plan.Printers {
		fmt.Printf("%s  plates=%d cycles=%d hours=%.1f\n",
			p.PrinterName, p.RequiredPlates, p.NightCycleCount, p.TotalNightHours)
		for _, c := range p.Cycles {
			fmt.Printf("  - %s (%.1fh)\n", c.ProjectName, c.CycleHours)
		}
	}
}
