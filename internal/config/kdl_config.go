package config

import (
	"fmt"
	"log"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// parseKDL parses a .flx.kdl document on top of the defaults
func parseKDL(content string) (*Config, error) {
	cfg := Default()
	if err := applyKDL(cfg, content); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyKDL overwrites the fields of cfg named in the KDL document.
//
//	version 1
//	scoring {
//	    max_len 256
//	    dist_weight -1.0
//	    separator_policy "skip"
//	}
//	ranking {
//	    workers 4
//	    cache_size 0
//	}
func applyKDL(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "version":
			if v, ok := firstIntArg(n); ok {
				cfg.Version = v
			}
		case "scoring":
			for _, cn := range n.Children {
				if err := applyScoringNode(&cfg.Scoring, cn); err != nil {
					return err
				}
			}
		case "ranking":
			for _, cn := range n.Children {
				applyRankingNode(&cfg.Ranking, cn)
			}
		}
	}

	return nil
}

func applyScoringNode(s *Scoring, cn *document.Node) error {
	switch nodeName(cn) {
	case "max_len":
		if v, ok := firstIntArg(cn); ok {
			s.MaxLen = v
		}
	case "separator_factor":
		assignFloat(cn, &s.SeparatorFactor)
	case "separator_reduce":
		assignFloat(cn, &s.SeparatorReduce)
	case "class_factor":
		assignFloat(cn, &s.ClassFactor)
	case "class_reduce":
		assignFloat(cn, &s.ClassReduce)
	case "first_factor":
		assignFloat(cn, &s.FirstFactor)
	case "after_separator_boost":
		assignFloat(cn, &s.AfterSeparatorBoost)
	case "dist_weight":
		assignFloat(cn, &s.DistWeight)
	case "heat_weight":
		assignFloat(cn, &s.HeatWeight)
	case "factor_weight":
		assignFloat(cn, &s.FactorWeight)
	case "exact_match_factor":
		assignFloat(cn, &s.ExactMatchFactor)
	case "separator_policy":
		if str, ok := firstStringArg(cn); ok {
			policy, err := ParseSeparatorPolicy(str)
			if err != nil {
				return err
			}
			s.SeparatorPolicy = policy
		}
	}
	return nil
}

func applyRankingNode(r *Ranking, cn *document.Node) {
	switch nodeName(cn) {
	case "workers":
		if v, ok := firstIntArg(cn); ok {
			r.Workers = v
		}
	case "shard_size":
		if v, ok := firstIntArg(cn); ok {
			r.ShardSize = v
		}
	case "cache_size":
		if v, ok := firstIntArg(cn); ok {
			r.CacheSize = v
		}
	case "default_limit":
		if v, ok := firstIntArg(cn); ok {
			r.DefaultLimit = v
		}
	}
}

// Helper functions over the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}
func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		log.Printf("WARNING: invalid float value for '%s' in KDL config, expected number but got %T", nodeName(n), n.Arguments[0].Value)
		return 0, false
	}
}
func assignFloat(n *document.Node, dst *float64) {
	if v, ok := firstFloatArg(n); ok {
		*dst = v
	}
}
