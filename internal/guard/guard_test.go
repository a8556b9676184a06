package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name   string
		state  AuthState
		target string
		want   Decision
	}{
		{
			name:   "unknown auth holds at checking",
			state:  AuthState{},
			target: "/insights",
			want:   Checking,
		},
		{
			name:   "unauthenticated redirects to login",
			state:  AuthState{Checked: true},
			target: "/insights",
			want:   RedirectLogin,
		},
		{
			name:   "onboarding incomplete redirects from home",
			state:  AuthState{Checked: true, Authenticated: true},
			target: HomeRoute,
			want:   RedirectOnboarding,
		},
		{
			name:   "onboarding incomplete allows non-home routes",
			state:  AuthState{Checked: true, Authenticated: true},
			target: "/insights",
			want:   Allow,
		},
		{
			name:   "fully onboarded allows home",
			state:  AuthState{Checked: true, Authenticated: true, OnboardingCompleted: true},
			target: HomeRoute,
			want:   Allow,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.state, tc.target).Decision)
		})
	}
}

func TestRedirectLoginPreservesTarget(t *testing.T) {
	out := Decide(AuthState{Checked: true}, "/jobs/job_42")
	assert.Equal(t, RedirectLogin, out.Decision)
	assert.Equal(t, "/jobs/job_42", out.ReturnTo)
}
