// Copyright 2026 Statekit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// transition-demo loads transition specs from a YAML file, drives each one
// through a full show/hide cycle, and logs every hook invocation. It is a
// minimal host adapter around the transition machine.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/statekit/transition/pkg/config"
	"github.com/statekit/transition/pkg/logger"
	"github.com/statekit/transition/pkg/transition"
)

func main() {
	// Initialize the global logger first thing
	logger.Initialize()

	log := logger.For(logger.ComponentCore)

	specPath := flag.String("config", "transitions.yaml", "path to the transition spec file")
	flag.Parse()

	file, err := config.ParseFile(*specPath)
	if err != nil {
		log.Errorf("Failed to load specs: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	for i := range file.Transitions {
		spec := &file.Transitions[i]
		if err := spec.Validate(false); err != nil {
			log.Errorf("Invalid spec: %v", err)
			os.Exit(1)
		}
		runCycle(ctx, spec)
	}

	_ = logger.Sync()
}

// runCycle mounts the spec'd transition, shows it, hides it again, and
// waits for each phase to settle.
func runCycle(ctx context.Context, spec *config.TransitionSpec) {
	log := logger.For(logger.ComponentCore).Named(spec.Name)

	props := spec.Props()
	props.OnEnter = func(node transition.Node, isAppearing bool) {
		log.Infof("onEnter (appearing=%v)", isAppearing)
	}
	props.OnEntering = func(node transition.Node, isAppearing bool) {
		log.Infof("onEntering (appearing=%v)", isAppearing)
	}
	props.OnEntered = func(node transition.Node, isAppearing bool) {
		log.Infof("onEntered (appearing=%v)", isAppearing)
	}
	props.OnExit = func(node transition.Node) { log.Info("onExit") }
	props.OnExiting = func(node transition.Node) { log.Info("onExiting") }
	props.OnExited = func(node transition.Node) { log.Info("onExited") }

	tr := transition.New(transition.Config{
		ID:    spec.Name,
		Props: props,
	})

	tr.OnMount(ctx)
	log.Infof("Mounted, status=%s", tr.Status())

	tr.SetShown(ctx, true)
	waitSettled(tr, transition.StatusEntered)
	log.Infof("Shown, status=%s", tr.Status())

	tr.SetShown(ctx, false)
	waitSettled(tr, transition.StatusExited, transition.StatusUnmounted)
	log.Infof("Hidden, status=%s", tr.Status())

	tr.OnUnmount()
}

func waitSettled(tr *transition.Transition, want ...transition.Status) {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		for _, s := range want {
			if tr.Status() == s {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
}
