package config

// flofile is the on-disk structure of the flo.yaml configuration file. All
// fields are optional; zero values fall back to defaults.
type flofile struct {
	Version     string `yaml:"version"`
	Pipeline    string `yaml:"pipeline"`
	Cache       string `yaml:"cache"`
	Parallelism int    `yaml:"parallelism"`
	TaskTimeout string `yaml:"task_timeout"`
	Project     string `yaml:"project"`
	Placeholder string `yaml:"placeholder"`
	ScriptsDir  string `yaml:"scripts_dir"`
	Main        string `yaml:"main"`
}
