package tools

import (
	"context"
	"fmt"
	"strings"
)

// SchoolWebsiteTool resolves a dental school name to its official website
// from a curated table. There is no live web search: the table covers the
// schools students actually ask about, and a miss is reported honestly so
// the agent never renders a fabricated link.
type SchoolWebsiteTool struct{}

func NewSchoolWebsiteTool() *SchoolWebsiteTool { return &SchoolWebsiteTool{} }

func (t *SchoolWebsiteTool) Name() string { return "find_school_website" }

func (t *SchoolWebsiteTool) Description() string {
	return "Find the official website URL for a dental school."
}

type knownSite struct {
	name string
	url  string
}

var knownSites = []knownSite{
	{"UCLA", "https://dentistry.ucla.edu"},
	{"USC", "https://dentistry.usc.edu"},
	{"UCSF", "https://dentistry.ucsf.edu"},
	{"University of Pennsylvania", "https://www.dental.upenn.edu"},
	{"Harvard", "https://hsdm.harvard.edu"},
	{"Columbia", "https://www.dental.columbia.edu"},
	{"NYU", "https://dental.nyu.edu"},
	{"Boston University", "https://www.bu.edu/dental"},
	{"Tufts", "https://dental.tufts.edu"},
	{"University of Michigan", "https://dentistry.umich.edu"},
	{"University of North Carolina", "https://www.dentistry.unc.edu"},
	{"University of Florida", "https://dental.ufl.edu"},
	{"University of Illinois Chicago", "https://dentistry.uic.edu"},
	{"University of Pittsburgh", "https://www.dental.pitt.edu"},
	{"Temple University", "https://dentistry.temple.edu"},
	{"Nova Southeastern", "https://dental.nova.edu"},
	{"Midwestern University", "https://www.midwestern.edu/academics/dentistry"},
	{"Loma Linda", "https://dentistry.llu.edu"},
	{"University of the Pacific", "https://dental.pacific.edu"},
	{"Creighton", "https://dentistry.creighton.edu"},
	{"Marquette", "https://www.marquette.edu/dentistry"},
	{"University of Connecticut", "https://health.uconn.edu/dental-medicine"},
	{"University of Washington", "https://dental.washington.edu"},
	{"University of Iowa", "https://dentistry.uiowa.edu"},
	{"Ohio State", "https://dentistry.osu.edu"},
	{"Case Western", "https://case.edu/dental"},
	{"University of Maryland", "https://www.dental.umaryland.edu"},
	{"University of Louisville", "https://louisville.edu/dentistry"},
	{"University of Tennessee", "https://www.uthsc.edu/dentistry"},
	{"University of Texas", "https://dentistry.uth.edu"},
	{"Texas A&M", "https://dentistry.tamhsc.edu"},
	{"Augusta University", "https://www.augusta.edu/dentalmedicine"},
	{"Stony Brook", "https://dentistry.stonybrookmedicine.edu"},
	{"Rutgers", "https://sdm.rutgers.edu"},
	{"University of Nebraska", "https://www.unmc.edu/dentistry"},
	{"University of Minnesota", "https://www.dentistry.umn.edu"},
	{"University of Missouri-Kansas City", "https://dentistry.umkc.edu"},
	{"University of Oklahoma", "https://dentistry.ouhsc.edu"},
	{"University of Colorado", "https://www.cuanschutz.edu/dentalmedicine"},
	{"Oregon Health & Science University", "https://www.ohsu.edu/school-of-dentistry"},
}

// Call expects input {"schoolName": ...} and returns {"success": bool,
// "websiteUrl": string, "message": string}.
func (t *SchoolWebsiteTool) Call(ctx context.Context, tctx ToolContext, input map[string]any) (map[string]any, error) {
	schoolName := strings.TrimSpace(getString(input, "schoolName"))
	if schoolName == "" {
		return nil, fmt.Errorf("find_school_website: schoolName is required")
	}

	normalized := strings.ToLower(schoolName)
	for _, site := range knownSites {
		name := strings.ToLower(site.name)
		if strings.Contains(normalized, name) || strings.Contains(name, normalized) {
			return map[string]any{
				"success":    true,
				"schoolName": schoolName,
				"websiteUrl": site.url,
				"message":    fmt.Sprintf("Found official website for %s", schoolName),
			}, nil
		}
	}

	return map[string]any{
		"success":    false,
		"schoolName": schoolName,
		"websiteUrl": "",
		"message":    fmt.Sprintf("Could not find the official website for %q in the database.", schoolName),
	}, nil
}
