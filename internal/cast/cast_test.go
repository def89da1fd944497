package cast

import "testing"

func TestNameFromTXT(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		txt  string
		want string
	}{
		{
			name: "typical record",
			txt:  "rs=nf=1bs=FA8FCA9EA344st=0fn=Living Roomca=2052ic=/setup/icon.png",
			want: "Living Room",
		},
		{
			name: "name directly before capabilities",
			txt:  "fn=Kitchen speakerca=4101",
			want: "Kitchen speaker",
		},
		{
			name: "missing fn marker",
			txt:  "rs=st=0ca=2052",
			want: "",
		},
		{
			name: "missing ca marker",
			txt:  "fn=Bedroomic=/setup/icon.png",
			want: "",
		},
		{
			name: "empty name",
			txt:  "fn=ca=2052",
			want: "",
		},
		{
			name: "empty record",
			txt:  "",
			want: "",
		},
	}
	for _, tt := range tests {
		if got := nameFromTXT(tt.txt); got != tt.want {
			t.Errorf("%s: nameFromTXT(%q) = %q, want %q", tt.name, tt.txt, got, tt.want)
		}
	}
}
