package main

import (
	"flag"
	"log"

	"github.com/robotalks/skylink/pkg/env"
	fx "github.com/robotalks/skylink/pkg/framework"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()

	conf, err := env.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	d, err := NewDaemon(conf)
	if err != nil {
		log.Fatalln(err)
	}
	runner := fx.NewRunner().HandleSignals()
	if err := d.Start(runner); err != nil {
		log.Fatalln(err)
	}
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
