package Config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config 仿真运行参数，TOML文件载入后可被命令行参数覆盖
type Config struct {
	TotalNodes     int    `toml:"total_nodes"`
	Faulty         int    `toml:"faulty"`
	ByzantineNodes []int  `toml:"byzantine_nodes"`
	RandomNodes    []int  `toml:"random_nodes"`
	View           int    `toml:"view"`
	BlockData      string `toml:"block_data"`

	LogLevel int    `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

func DefaultConfig() *Config {

	return &Config{
		TotalNodes:     4,
		Faulty:         1,
		ByzantineNodes: nil,
		RandomNodes:    nil,
		View:           0,
		BlockData:      "simulated transaction batch",
		LogLevel:       0,
		LogFile:        "",
	}

}

// Load 读取TOML配置，path为空时使用默认配置
func Load(path string) (*Config, error) {

	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s not found", path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s failed: %w", path, err)
	}

	return cfg, nil
}

// Validate 构造任何节点之前先校验配置，totalNodes <= 3f 直接判为致命配置错误
func (c *Config) Validate() error {

	if c.TotalNodes <= 3*c.Faulty {
		return fmt.Errorf("invalid configuration: total_nodes %d must be greater than 3f, f: %d", c.TotalNodes, c.Faulty)
	}
	if c.Faulty < 0 {
		return fmt.Errorf("invalid configuration: faulty %d must not be negative", c.Faulty)
	}

	seen := make(map[int]bool)
	for _, id := range append(append([]int{}, c.ByzantineNodes...), c.RandomNodes...) {

		if id < 1 || id > c.TotalNodes {
			return fmt.Errorf("invalid configuration: node id %d out of range [1, %d]", id, c.TotalNodes)
		}
		if seen[id] {
			return fmt.Errorf("invalid configuration: node id %d assigned more than one faulty mode", id)
		}
		seen[id] = true

	}

	return nil
}

func (c *Config) IsByzantine(id int) bool {

	for _, b := range c.ByzantineNodes {
		if b == id {
			return true
		}
	}

	return false
}

func (c *Config) IsRandom(id int) bool {

	for _, r := range c.RandomNodes {
		if r == id {
			return true
		}
	}

	return false
}
