package staterng

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseHashKind(t *testing.T) {
	tests := []struct {
		in      string
		want    HashKind
		wantErr bool
	}{
		{"", HashXXH3, false},
		{"xxh3", HashXXH3, false},
		{"XXH128", HashXXH3, false},
		{"xxh64", HashXXH64, false},
		{" xxhash ", HashXXH64, false},
		{"blake2b", HashBlake2b, false},
		{"sha256", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseHashKind(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseHashKind(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseHashKind(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestHashKindString(t *testing.T) {
	assert.Equal(t, "xxh3", HashXXH3.String())
	assert.Equal(t, "xxh64", HashXXH64.String())
	assert.Equal(t, "blake2b", HashBlake2b.String())
	assert.Equal(t, "HashKind(9)", HashKind(9).String())
	assert.Nil(t, HashKind(9).Func())
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    Config
		wantErr bool
	}{
		{
			name: "empty document keeps defaults",
			doc:  "",
			want: DefaultConfig(),
		},
		{
			name: "all fields",
			doc:  "total_capacity_cap: 1024\nuser_capacity_cap: 256\nhash: xxh64\n",
			want: Config{TotalCapacityCap: 1024, UserCapacityCap: 256, Hash: HashXXH64},
		},
		{
			name: "partial",
			doc:  "hash: blake2b\n",
			want: Config{TotalCapacityCap: DefaultCapacityCap, UserCapacityCap: DefaultCapacityCap, Hash: HashBlake2b},
		},
		{name: "unknown hash", doc: "hash: md5\n", wantErr: true},
		{name: "hash not scalar", doc: "hash: [xxh3]\n", wantErr: true},
		{name: "invalid cap", doc: "total_capacity_cap: 8\n", wantErr: true},
		{name: "malformed", doc: "total_capacity_cap: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfig([]byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staterng.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_capacity_cap: 4096\n"), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(4096), config.UserCapacityCap)
	assert.Equal(t, HashXXH3, config.Hash)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_MarshalYAML(t *testing.T) {
	config := DefaultConfig()
	config.Hash = HashBlake2b

	out, err := yaml.Marshal(config)
	require.NoError(t, err)
	assert.Contains(t, string(out), "hash: blake2b")

	back, err := ParseConfig(out)
	require.NoError(t, err)
	assert.Equal(t, config, back)
}

func TestConfig_Defaults(t *testing.T) {
	var c Config
	assert.IsType(t, HeapAllocator{}, c.allocator())
	assert.Same(t, DefaultUniqueness(), c.uniqueness())
	assert.NotNil(t, c.hashFunc())
}
