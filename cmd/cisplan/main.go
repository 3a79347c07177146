package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rigado/bleiso"
	"github.com/rigado/bleiso/cache"
	"github.com/rigado/bleiso/config"
	"github.com/rigado/bleiso/lctr"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "cisplan"
	app.Usage = "run CIS establishment scenarios against the peripheral scheduler"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "coordinator config `FILE` (json)"},
		cli.StringFlag{Name: "log-level, l", Usage: "override the configured log level"},
		cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
	}
	app.Before = func(c *cli.Context) error {
		if c.GlobalBool("no-color") {
			color.NoColor = true
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "run a scenario and print the resulting layout",
			ArgsUsage: "SCENARIO",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "cache", Usage: "store committed schedules in `FILE`"},
			},
			Action: cmdRun,
		},
		{
			Name:      "validate",
			Usage:     "check every request of a scenario without running it",
			ArgsUsage: "SCENARIO",
			Action:    cmdValidate,
		},
		{
			Name:  "show",
			Usage: "print schedules stored by run --cache",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "cache", Value: "schedules.json", Usage: "schedule cache `FILE`"},
			},
			Action: cmdShow,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if fn := c.GlobalString("config"); fn != "" {
		var err error
		if cfg, err = config.Load(fn); err != nil {
			return nil, err
		}
	}
	if lvl := c.GlobalString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

func scenarioArg(c *cli.Context) (*Scenario, error) {
	if c.NArg() != 1 {
		return nil, cli.NewExitError("expected one scenario file", 2)
	}
	return loadScenario(c.Args().First())
}

func cmdRun(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	sc, err := scenarioArg(c)
	if err != nil {
		return err
	}

	l, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	log := bleiso.NewLogger(l)
	bleiso.SetLogger(log)

	opts := append(cfg.Options(),
		bleiso.OptLogger(log),
		bleiso.OptBodBuilder(&logBuilder{log: log}),
	)
	co, err := lctr.NewCoordinator(sc.Connection.params(), opts...)
	if err != nil {
		return err
	}

	if sc.Name != "" {
		fmt.Fprintf(c.App.Writer, "scenario %v\n", sc.Name)
	}
	r := &runner{co: co, out: c.App.Writer}
	runErr := r.run(sc)
	printLayout(c.App.Writer, co)

	if fn := c.String("cache"); fn != "" {
		sch := cache.New(fn)
		for _, s := range co.Schedules() {
			if err := sch.Store(s.Key(), s, true); err != nil {
				return err
			}
		}
	}
	return runErr
}

func cmdValidate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	sc, err := scenarioArg(c)
	if err != nil {
		return err
	}

	if n := validateScenario(c.App.Writer, sc, cfg.SetupDelayUsec); n > 0 {
		return cli.NewExitError(fmt.Sprintf("%v invalid requests", n), 1)
	}
	return nil
}

func cmdShow(c *cli.Context) error {
	sch := cache.New(c.String("cache"))
	keys, err := sch.Keys()
	if err != nil {
		return err
	}

	for _, k := range keys {
		s, err := sch.Load(k)
		if err != nil {
			return err
		}
		infoColor.Fprintf(c.App.Writer, "%v: cig %v, %v packing, iso interval %v usec, anchor %v\n",
			k, s.CigID, s.Packing, s.IsoIntervalUsec, s.AnchorUsec)
		for _, e := range s.Streams {
			fmt.Fprintf(c.App.Writer, "  cis %-3d handle 0x%04x start %6d nse %-2d delay %6d next %6d\n",
				e.CisID, e.CisHandle, e.StartUsec, e.Nse, e.DelayUsec, e.NextStreamOffsetUsec)
		}
	}
	return nil
}
