package ui

import "talentpipe/pkg/pipeline"

type multiReporter []pipeline.Reporter

// Multi fans every update out to each reporter in order
func Multi(reporters ...pipeline.Reporter) pipeline.Reporter {
	var out multiReporter
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multiReporter) SetState(s pipeline.State) {
	for _, r := range m {
		r.SetState(s)
	}
}

func (m multiReporter) SetStatus(message string) {
	for _, r := range m {
		r.SetStatus(message)
	}
}

func (m multiReporter) SetProject(name, id string) {
	for _, r := range m {
		r.SetProject(name, id)
	}
}

func (m multiReporter) SetCounts(found, processed int) {
	for _, r := range m {
		r.SetCounts(found, processed)
	}
}

func (m multiReporter) SetProgress(percent float64) {
	for _, r := range m {
		r.SetProgress(percent)
	}
}

func (m multiReporter) Done(summary pipeline.Summary) {
	for _, r := range m {
		r.Done(summary)
	}
}
