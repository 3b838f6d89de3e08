// Package inspect exposes named subjects for tooling.
//
// A Registry maps names to subjects. It can describe them, assign textual
// literals to them and watch them for changes. Server puts a Registry on
// HTTP with chi and streams changes to websocket clients:
//
//	reg := inspect.NewRegistry()
//	reg.MustRegister("temperature", &temperature)
//
//	srv := inspect.NewServer(reg, l)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	http.ListenAndServe(":7070", srv)
//
// Routes:
//
//	GET /subjects            all subjects, sorted by name
//	GET /subjects/{name}     one subject
//	PUT /subjects/{name}     {"value": "22"} assigns a literal
//	GET /ws                  hello message, then one message per change
//	GET /metrics             when WithMetricsHandler is set
//
// Every subject access made by the server runs on the loop passed to
// NewServer.
package inspect
