package config

// Pipefile represents the structure of the assetpipe.yaml configuration file.
// Every key is optional; missing keys keep the built-in defaults.
type Pipefile struct {
	Version string               `yaml:"version"`
	Paths   map[string]*GroupDTO `yaml:"paths"`
	Tools   ToolsDTO             `yaml:"tools"`
	Remove  RemoveDTO            `yaml:"remove"`
	Notify  NotifyDTO            `yaml:"notify"`
}

// GroupDTO overrides the paths of one asset group.
type GroupDTO struct {
	Src   []string `yaml:"src"`
	Entry string   `yaml:"entry"`
	Svg   []string `yaml:"svg"`
	Dest  string   `yaml:"dest"`
	File  string   `yaml:"file"`
}

// ToolsDTO configures the external collaborators.
type ToolsDTO struct {
	Sass      string   `yaml:"sass"`
	LoadPaths []string `yaml:"loadPaths"`
}

// RemoveDTO configures unused-rule removal.
type RemoveDTO struct {
	HTML []string `yaml:"html"`
}

// NotifyDTO configures failure notifications of interactive tasks.
type NotifyDTO struct {
	Desktop *bool `yaml:"desktop"`
}
