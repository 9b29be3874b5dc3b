package analytics

import "testing"

func TestCategorize(t *testing.T) {
	cases := []struct {
		desc string
		want Category
	}{
		{"Website development services", CategoryWebDevelopment},
		{"Backend coding sprint", CategoryWebDevelopment},
		{"Logo and brand design", CategoryDesignServices},
		{"UX research workshop", CategoryDesignServices},
		{"Quarterly strategy consulting", CategoryConsulting},
		{"Social media advertising", CategoryMarketing},
		{"Office rent", CategoryOther},
		{"", CategoryOther},
	}
	for _, c := range cases {
		if got := Categorize(c.desc); got != c.want {
			t.Fatalf("Categorize(%q) = %q, want %q", c.desc, got, c.want)
		}
	}
}

func TestCategorizeFirstMatchWins(t *testing.T) {
	// "web design" matches both the web and design rules; the rule table
	// is evaluated in order so the web rule takes it.
	if got := Categorize("Web design consulting"); got != CategoryWebDevelopment {
		t.Fatalf("Categorize(web design consulting) = %q, want %q", got, CategoryWebDevelopment)
	}
	if got := Categorize("Design consulting"); got != CategoryDesignServices {
		t.Fatalf("Categorize(design consulting) = %q, want %q", got, CategoryDesignServices)
	}
}

func TestCategorizeCaseInsensitive(t *testing.T) {
	if got := Categorize("MARKETING CAMPAIGN"); got != CategoryMarketing {
		t.Fatalf("Categorize(MARKETING CAMPAIGN) = %q, want %q", got, CategoryMarketing)
	}
}
