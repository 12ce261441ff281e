// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package supervisor runs the long-lived services of the serve command under
a suture v4 supervisor tree.

	RootSupervisor ("blockwise")
	├── StoreSupervisor ("store-layer")
	│   └── StoreGCService
	└── APISupervisor ("api-layer")
	    └── ReportAPIService

Crashed services are restarted with suture's backoff; a failing GC loop
never takes the report API down with it. Supervisor events are logged
through sutureslog into the zerolog logger (see logging.NewSlogLogger).

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddStoreService(services.NewStoreGCService(st, cfg.Store.GCInterval))
	tree.AddAPIService(services.NewReportAPIService(server, addr, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
