// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"portfolio/internal/models"
	"portfolio/internal/slug"
)

type seedApp struct {
	name, desc, details, publicURL string
}

type seedSub struct {
	sub  models.Subcategory
	apps []seedApp
}

type seedCategory struct {
	cat  models.Category
	subs []seedSub
}

// demoCatalog is the development catalog written by Seed.
var demoCatalog = []seedCategory{
	{
		cat: models.Category{
			CatKey: "ai", Name: "ARTIFICIAL INTELLIGENCE",
			Tagline:  "Systems that learn, assist, and amplify human potential.",
			Gradient: "from-cyan-500 to-blue-600", IconKey: "Brain", Order: 1,
		},
		subs: []seedSub{
			{
				sub: models.Subcategory{SubKey: "education", Name: "Education", Blurb: "Personalized learning and mastery tracking.", IconKey: "GraduationCap", Order: 1},
				apps: []seedApp{
					{name: "AI Tutor", desc: "Conversational tutor that adapts to your level and pace.", details: "Curriculum-aware sessions, spaced repetition, and concept maps."},
					{name: "Learning Analytics", desc: "Insights from learning behavior and outcomes.", details: "Mastery dashboards, weak-area surfacing, and forecasts."},
					{name: "Skill Assessment", desc: "Practical, scenario-based evaluations.", details: "Auto-generated rubrics and feedback loops."},
				},
			},
			{
				sub: models.Subcategory{SubKey: "healthcare", Name: "Healthcare", Blurb: "Augmenting clinicians and empowering patients.", IconKey: "Stethoscope", Order: 2},
				apps: []seedApp{
					{name: "Symptom Analyzer", desc: "Triage and guidance based on symptoms.", details: "Evidence-backed suggestions and urgency flags."},
					{name: "Mental Health AI", desc: "Journaling, mood tracking, and nudges.", details: "CBT-inspired prompts and resources."},
					{name: "Medical Imaging", desc: "Assists reading scans for faster insights.", details: "Anomaly highlighting and structured reports."},
				},
			},
			{
				sub: models.Subcategory{SubKey: "energy", Name: "Energy", Blurb: "Optimize generation, storage, and consumption.", IconKey: "Battery", Order: 3},
				apps: []seedApp{
					{name: "Smart Grid", desc: "Grid-level prediction and orchestration.", details: "Demand response and fault detection."},
					{name: "Carbon Tracker", desc: "Measure, reduce, and report emissions.", details: "Goal tracking and compliance views."},
					{name: "Renewable Optimizer", desc: "Forecast and tune renewable assets.", details: "Weather-aware scheduling and maintenance."},
				},
			},
		},
	},
	{
		cat: models.Category{
			CatKey: "inner", Name: "INNER INTELLIGENCE",
			Tagline:  "Mind, body, and soul: your inner operating system.",
			Gradient: "from-fuchsia-500 to-rose-600", IconKey: "Sparkles", Order: 2,
		},
		subs: []seedSub{
			{
				sub: models.Subcategory{SubKey: "mind", Name: "Mind", Blurb: "Clarity, calm, and cognitive flow.", IconKey: "Brain", Order: 1},
				apps: []seedApp{
					{name: "Meditation Timer", desc: "Rituals, intervals, and soundscapes.", details: "Breath pacing and bell patterns."},
					{name: "Binural Beats", desc: "Focus beats player.", details: "Binaural tones for focus and rest.", publicURL: "https://sameerai.com/04mind/BinuralBeatsApp.html"},
					{name: "Focus Enhancer", desc: "Deep-work cycles with gentle nudges.", details: "Pomodoro and distraction logs."},
					{name: "Mindfulness Tracker", desc: "Micro check-ins that add up.", details: "Mood tagging and streaks."},
				},
			},
			{
				sub: models.Subcategory{SubKey: "body", Name: "Body", Blurb: "Movement, recovery, and holistic health.", IconKey: "Dumbbell", Order: 2},
				apps: []seedApp{
					{name: "Wellness Monitor", desc: "Vitals and habits in one view.", details: "Sleep, hydration, HRV, and alerts."},
					{name: "Movement Analytics", desc: "Technique cues and mobility insights.", details: "Posture detection and recovery load."},
					{name: "Health Insights", desc: "Trends you can act on.", details: "Lab markers and personalized recommendations."},
				},
			},
			{
				sub: models.Subcategory{SubKey: "soul", Name: "Soul", Blurb: "Meaning, gratitude, and growth.", IconKey: "Sparkles", Order: 3},
				apps: []seedApp{
					{name: "Gratitude Journal", desc: "Capture tiny joys that shape big days.", details: "Prompts and kindness streaks."},
					{name: "Purpose Discovery", desc: "Align your compass with your calling.", details: "Values mapping and story work."},
					{name: "Spiritual Growth", desc: "Practice, reflect, and integrate.", details: "Daily sadhana and milestones."},
				},
			},
		},
	},
}

// Seed populates an empty catalog with the development data set.
// It does nothing if any category already exists. Apps that already
// exist are left untouched.
func Seed(ctx context.Context, c Catalog) error {
	existing, err := c.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("catalog already seeded, skipping")
		return nil
	}

	var cats, subs, apps int
	for _, sc := range demoCatalog {
		if _, err := c.UpsertCategory(ctx, sc.cat); err != nil {
			return fmt.Errorf("seed category %s: %w", sc.cat.CatKey, err)
		}
		cats++

		for _, ss := range sc.subs {
			sub := ss.sub
			sub.CatKey = sc.cat.CatKey
			if _, err := c.UpsertSubcategory(ctx, sub); err != nil {
				return fmt.Errorf("seed subcategory %s/%s: %w", sub.CatKey, sub.SubKey, err)
			}
			subs++

			for _, sa := range ss.apps {
				_, err := c.CreateApp(ctx, models.App{
					CatKey:    sub.CatKey,
					SubKey:    sub.SubKey,
					Name:      sa.name,
					Desc:      sa.desc,
					Details:   sa.details,
					PublicURL: sa.publicURL,
					ThumbURL:  "https://picsum.photos/seed/" + slug.Generate(sa.name) + "/200",
				})
				if errors.Is(err, ErrConflict) {
					continue
				}
				if err != nil {
					return fmt.Errorf("seed app %s: %w", sa.name, err)
				}
				apps++
			}
		}
	}

	slog.Info("catalog seeded", "categories", cats, "subcategories", subs, "apps", apps)
	return nil
}
