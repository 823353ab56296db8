package desktop

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	content := `# comment
[Desktop Entry]
Type=Application
Name=System Update Checker
Exec=/usr/bin/sysupd watch
Categories=System;Utility;
Terminal=false
X-GNOME-Autostart-enabled=false

[Desktop Action Check]
Name=Ignored
`

	de, err := Parse(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "Application", de.Type)
	assert.Equal(t, "System Update Checker", de.Name)
	assert.Equal(t, "/usr/bin/sysupd watch", de.Exec)
	assert.Equal(t, []string{"System", "Utility"}, de.Categories)
	assert.False(t, de.Terminal)
	require.NotNil(t, de.AutostartEnabled)
	assert.False(t, *de.AutostartEnabled)
}

func TestWriteParseRoundTrip(t *testing.T) {
	entry := AutostartEntry("/usr/local/bin/sysupd")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entry))

	assert.Contains(t, buf.String(), "[Desktop Entry]\n")
	assert.Contains(t, buf.String(), "Exec=/usr/local/bin/sysupd watch\n")
	assert.Contains(t, buf.String(), "Categories=System;Utility;\n")
	assert.Contains(t, buf.String(), "X-GNOME-Autostart-enabled=true\n")

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, entry, parsed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr string
	}{
		{"valid", Entry{Type: "Application", Name: "x", Exec: "x"}, ""},
		{"missing type", Entry{Name: "x", Exec: "x"}, "Type"},
		{"missing name", Entry{Type: "Application", Exec: "x"}, "Name"},
		{"missing exec", Entry{Type: "Application", Name: "x"}, "Exec"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.entry)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExecLine(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"plain", []string{"/usr/bin/sysupd", "watch"}, "/usr/bin/sysupd watch"},
		{"space", []string{"/opt/my apps/sysupd", "watch"}, `"/opt/my apps/sysupd" watch`},
		{"quote and dollar", []string{`a"b$c`}, `"a\"b\$c"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExecLine(tt.argv...))
		})
	}
}

func TestWriteFileAndReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/user/.config/autostart/sysupd.desktop"

	require.NoError(t, WriteFile(fs, path, AutostartEntry("/usr/bin/sysupd")))

	de, err := ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/sysupd watch", de.Exec)

	err = WriteFile(fs, path, &Entry{Name: "broken"})
	assert.Error(t, err)

	_, err = ReadFile(fs, "/missing.desktop")
	assert.Error(t, err)
}
