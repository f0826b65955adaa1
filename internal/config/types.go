// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

// Config represents the complete configuration for sirseer-search.
type Config struct {
	GitHub   GitHubConfig            `yaml:"github" toml:"github"`
	Defaults DefaultsConfig          `yaml:"defaults" toml:"defaults"`
	Searches map[string]SearchConfig `yaml:"searches" toml:"searches"`
	Logging  LoggingConfig           `yaml:"logging" toml:"logging"`
}

// GitHubConfig contains the GraphQL endpoint and the name of the environment
// variable holding the token. Point GraphQLEndpoint at
// https://<host>/api/graphql for GitHub Enterprise.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint" toml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env" toml:"token_env"`
}

// DefaultsConfig applies to every search unless a named search or a
// command-line flag overrides it.
type DefaultsConfig struct {
	BatchSize int    `yaml:"batch_size" toml:"batch_size"`
	StateDir  string `yaml:"state_dir" toml:"state_dir"`
}

// SearchConfig is a saved search. Running `fetch <name>` uses Query in
// place of the literal argument.
type SearchConfig struct {
	Query     string `yaml:"query" toml:"query"`
	BatchSize int    `yaml:"batch_size" toml:"batch_size"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// DefaultConfig returns a Config suitable for public GitHub.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			BatchSize: 50,
			StateDir:  "~/.sirseer/state",
		},
		Searches: make(map[string]SearchConfig),
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
