// Package chatflow provides a conversational workflow engine.
//
// An inbound message is routed through a directed graph of typed nodes
// declared in YAML or JSON: input validation, intent classification, one of
// several responders, reply formatting, delivery and audit logging. The
// engine is built from pluggable layers:
//
//   - executor   – node dispatch over a handler registry
//   - classifier – keyword and pattern based intent detection
//   - statistics – aggregated execution counters
//   - dao        – workflow loading, schedule lookup and result history
//
// End-users typically interact with the engine via the Service facade:
//
//	wf, _ := workflow.New().Load(ctx, "masjid_workflow.yaml")
//	srv, _ := chatflow.New(ctx, wf)
//	result := srv.Execute(ctx, &execution.Input{SenderID: "+6281234567890", Text: "jadwal sholat"})
//	fmt.Println(result.Response(), srv.Statistics().Total)
package chatflow
