package fishing

import (
	"fmt"
	"io"
	"sort"

	"fish-bot/internal/vision"
)

// Finding is the best match of one template in an inspected capture.
type Finding struct {
	ID    vision.TemplateID
	Match vision.Match
	Err   error
}

// Report is what the bot would conclude from a single capture.
type Report struct {
	Cues     Cues
	Next     map[Phase]Phase // destination from every live phase
	Findings []Finding       // catalogue order
}

// Inspect classifies scene against every cue and locates every template.
// A template that cannot be located is recorded in its Finding rather than
// failing the report.
func Inspect(scene vision.Scene, threshold float64) (Report, error) {
	cues, err := Classifier{Threshold: threshold}.Classify(scene, AllCues)
	if err != nil {
		return Report{}, err
	}

	r := Report{Cues: cues, Next: make(map[Phase]Phase)}
	for p := AwaitingStart; p < Terminated; p++ {
		r.Next[p] = Next(p, cues)
	}

	for _, id := range vision.AllTemplates() {
		m, err := scene.Locate(id, vision.Center)
		r.Findings = append(r.Findings, Finding{ID: id, Match: m, Err: err})
	}
	return r, nil
}

// Marks turns the findings into snapshot boxes, green at or above
// threshold.
func (r Report) Marks(threshold float64) []vision.Mark {
	var marks []vision.Mark
	for _, f := range r.Findings {
		if f.Err != nil {
			continue
		}
		col := vision.MarkHit
		if f.Match.Score < threshold {
			col = vision.MarkMiss
		}
		marks = append(marks, vision.Mark{
			Label: fmt.Sprintf("%s %.2f", f.ID, f.Match.Score),
			Box:   f.Match.Box,
			Color: col,
		})
	}
	return marks
}

// Print writes the report in a human-readable form.
func (r Report) Print(w io.Writer, threshold float64) {
	fmt.Fprintf(w, "Cues: %s\n\n", r.Cues)

	fmt.Fprintln(w, "Transitions:")
	phases := make([]Phase, 0, len(r.Next))
	for p := range r.Next {
		phases = append(phases, p)
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i] < phases[j] })
	for _, p := range phases {
		to := r.Next[p]
		if to == p {
			fmt.Fprintf(w, "  %-15s stays\n", p)
		} else {
			fmt.Fprintf(w, "  %-15s -> %s\n", p, to)
		}
	}

	fmt.Fprintln(w, "\nTemplates:")
	for _, f := range r.Findings {
		if f.Err != nil {
			fmt.Fprintf(w, "  %-20s error: %v\n", f.ID, f.Err)
			continue
		}
		hit := " "
		if f.Match.Score >= threshold {
			hit = "*"
		}
		fmt.Fprintf(w, "%s %-20s %.3f at %s\n", hit, f.ID, f.Match.Score, f.Match.At)
	}
}
