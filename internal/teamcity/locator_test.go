package teamcity

import (
	"strings"
	"testing"
)

func TestLocatorDefaults(t *testing.T) {
	loc := NewLocator()
	got := loc.String()
	if got != "start:0,count:100" {
		t.Errorf("NewLocator().String() = %q, expected %q", got, "start:0,count:100")
	}
}

func TestLocatorPaginationOverride(t *testing.T) {
	loc := NewLocator().Start(20).Count(5)
	got := loc.String()
	if got != "start:20,count:5" {
		t.Errorf("String() = %q, expected %q", got, "start:20,count:5")
	}
}

func TestLocatorSparseFilters(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Locator
		expected string
	}{
		{
			name: "single filter",
			build: func() *Locator {
				return NewLocator().Set("status", "failure")
			},
			expected: "status:failure,start:0,count:100",
		},
		{
			name: "empty value dropped",
			build: func() *Locator {
				return NewLocator().Set("branch", "").Set("status", "success")
			},
			expected: "status:success,start:0,count:100",
		},
		{
			name: "filters keep insertion order",
			build: func() *Locator {
				return NewLocator().Set("project", "Proj").Set("user", "alice")
			},
			expected: "project:Proj,user:alice,start:0,count:100",
		},
		{
			name: "comma list wrapped in parentheses",
			build: func() *Locator {
				return NewLocator().Set("tags", "smoke,nightly")
			},
			expected: "tags:(smoke,nightly),start:0,count:100",
		},
		{
			name: "pre-wrapped value untouched",
			build: func() *Locator {
				return NewLocator().Count(1).Set("agent", "(id:7)").Set("running", "true")
			},
			expected: "agent:(id:7),running:true,start:0,count:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build().String()
			if got != tt.expected {
				t.Errorf("String() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestLocatorHas(t *testing.T) {
	loc := NewLocator().Set("status", "failure").Set("branch", "")
	if !loc.Has("status") {
		t.Error("Has(status) = false after Set")
	}
	if loc.Has("branch") {
		t.Error("Has(branch) = true for empty value")
	}
	if loc.Has("user") {
		t.Error("Has(user) = true for unset filter")
	}
}

func TestLocatorAlwaysIncludesPagination(t *testing.T) {
	loc := NewLocator().Set("buildType", "Proj_Build")
	got := loc.String()
	for _, want := range []string{"start:0", "count:100"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}
