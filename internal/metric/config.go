package metric

const DefaultNamespace = "kdtree"

type Config struct {
	Addr      string `envconfig:"KDTREE_METRICS_ADDR" toml:"addr"`
	Namespace string `envconfig:"KDTREE_METRICS_NAMESPACE" toml:"namespace"`
}

func (c Config) Enabled() bool {
	return c.Addr != ""
}
