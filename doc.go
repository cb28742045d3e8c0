/*
Package healthdes is a discrete event simulation library for health and social care pathways.

People (patients, clients, visitors) travel through a routing graph of decision points. Every
edge of the graph is an activity: check-in, triage, an X-ray, a stay on a ward. Each activity
a person performs runs as its own state machine, and people overlap their hand-over between
activities: the next activity is set up and seizes its resources before the current one lets
go of its own.

# Concept

A simulation is made of:

  - a routing graph (pkg/routing) whose edges name activity templates held in a registry,
  - activity behaviors (pkg/behaviors, or your own activity.Behavior) that wait for staff,
    occupy beds and take simulated time,
  - people (pkg/person) spawned individually or by arrival generators,
  - collectors (pkg/collector) recording datasets and counters as the run progresses.

Everything runs on a cooperative discrete-event kernel (pkg/sim): exactly one simulated
process executes at any time, so behaviors need no locking.

# Usage

	graph, err := dsl.New().
		Activity("check-in", activity.Noop, nil).
		Route("check-in", "arrival", "discharge").
		BuildFrom("arrival")
	if err != nil {
		log.Fatal(err)
	}

	s, err := healthdes.New(graph, healthdes.WithName("clinic"))
	if err != nil {
		log.Fatal(err)
	}
	if err := s.Arrivals("patient", "arrival", 20, 10*time.Minute, nil); err != nil {
		log.Fatal(err)
	}

	report, err := s.Run(context.Background(), 8*time.Hour)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Completed, "of", report.People, "patients discharged")

Models can also be written as YAML or JSON files and loaded with FromModel, which is what
the healthdes command does.
*/
package healthdes
