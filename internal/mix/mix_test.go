package mix

import "testing"

func TestParse(t *testing.T) {
	t.Run("plain title", func(t *testing.T) {
		d := Parse("Strobe")
		if !d.IsPlain {
			t.Error("expected IsPlain")
		}
		if d.IsOriginal || d.IsRemix || d.IsExtended {
			t.Errorf("unexpected flags: %+v", d)
		}
	})

	t.Run("original mix", func(t *testing.T) {
		for _, title := range []string{
			"Strobe (Original Mix)",
			"Strobe (original version)",
			"Strobe [Original]",
		} {
			d := Parse(title)
			if !d.IsOriginal {
				t.Errorf("Parse(%q): expected IsOriginal", title)
			}
			if d.IsPlain || d.IsRemix {
				t.Errorf("Parse(%q): unexpected flags %+v", title, d)
			}
		}
	})

	t.Run("extended mix", func(t *testing.T) {
		d := Parse("Opus (Extended Mix)")
		if !d.IsExtended {
			t.Error("expected IsExtended")
		}
	})

	t.Run("named remix", func(t *testing.T) {
		d := Parse("Tension (Perc Remix)")
		if !d.IsRemix {
			t.Error("expected IsRemix")
		}
		if len(d.Remixers) != 1 || d.Remixers[0] != "perc" {
			t.Errorf("Remixers = %v", d.Remixers)
		}
	})

	t.Run("multi word remixer", func(t *testing.T) {
		d := Parse("Hide (Tim Green Remix)")
		if !d.IsRemix {
			t.Error("expected IsRemix")
		}
		if len(d.Remixers) != 2 || d.Remixers[0] != "tim" || d.Remixers[1] != "green" {
			t.Errorf("Remixers = %v", d.Remixers)
		}
	})

	t.Run("bare remix names nobody", func(t *testing.T) {
		d := Parse("Hide (Remix)")
		if !d.IsRemix {
			t.Error("expected IsRemix")
		}
		if d.HasRemixer() {
			t.Errorf("Remixers = %v, want none", d.Remixers)
		}
	})

	t.Run("extended remix names nobody", func(t *testing.T) {
		d := Parse("Hide (Extended Remix)")
		if !d.IsRemix {
			t.Error("expected IsRemix")
		}
		if d.HasRemixer() {
			t.Errorf("Remixers = %v, want none", d.Remixers)
		}
	})

	t.Run("remix synonyms", func(t *testing.T) {
		for _, title := range []string{
			"Hide (Ivory Rework)",
			"Hide (Ivory Re-work)",
			"Hide (Ivory Flip)",
			"Hide (Ivory Bootleg)",
			"Hide (Ivory VIP)",
		} {
			d := Parse(title)
			if !d.IsRemix {
				t.Errorf("Parse(%q): expected IsRemix", title)
			}
			if !d.HasRemixer() {
				t.Errorf("Parse(%q): expected a remixer", title)
			}
		}
	})

	t.Run("dash suffix remix", func(t *testing.T) {
		d := Parse("Tension - Ivory Remix")
		if !d.IsRemix {
			t.Error("expected IsRemix")
		}
		if len(d.Remixers) != 1 || d.Remixers[0] != "ivory" {
			t.Errorf("Remixers = %v", d.Remixers)
		}
	})

	t.Run("generic phrase collected", func(t *testing.T) {
		d := Parse("Dawn (Ivory Re-fire)")
		if d.IsRemix || d.IsOriginal {
			t.Errorf("unexpected flags: %+v", d)
		}
		if len(d.Phrases) != 1 || d.Phrases[0] != "ivory re-fire" {
			t.Errorf("Phrases = %v", d.Phrases)
		}
	})

	t.Run("edit phrases carry nothing", func(t *testing.T) {
		d := Parse("Dawn (Radio Edit)")
		if d.IsPlain || d.IsRemix || d.IsOriginal {
			t.Errorf("unexpected flags: %+v", d)
		}
		if len(d.Phrases) != 0 {
			t.Errorf("Phrases = %v, want none", d.Phrases)
		}
	})

	t.Run("multiple parentheticals", func(t *testing.T) {
		d := Parse("Dawn (Perc Remix) (Extended Mix)")
		if !d.IsRemix || !d.IsExtended {
			t.Errorf("flags = %+v", d)
		}
	})

	t.Run("hyphenated word is not a suffix", func(t *testing.T) {
		d := Parse("Re-Fire")
		if !d.IsPlain {
			t.Errorf("expected IsPlain, got %+v", d)
		}
	})
}

func TestBaseTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Strobe (Original Mix)", "Strobe"},
		{"Tension - Ivory Remix", "Tension"},
		{"Dawn (Perc Remix) (Extended Mix)", "Dawn"},
		{"Never Sleep Again", "Never Sleep Again"},
		{"Re-Fire", "Re-Fire"},
	}
	for _, tc := range cases {
		if got := BaseTitle(tc.in); got != tc.want {
			t.Errorf("BaseTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	a := Parse("Tension (Perc Remix)")
	b := Parse("Tension (Perc Remix)")
	if a.IsRemix != b.IsRemix || len(a.Remixers) != len(b.Remixers) {
		t.Error("Parse not deterministic")
	}
}
