package temporal

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/credit-insights/internal/model"
)

// validBuckets guards rule files against typos in the bucket name.
var validBuckets = map[model.Bucket]struct{}{
	model.BucketUtilization:   {},
	model.BucketInquiries:     {},
	model.BucketAccounts:      {},
	model.BucketPayments:      {},
	model.BucketDelinquencies: {},
}

// LoadRules reads a categorization rule table from a YAML file. The
// file has a top-level "rules" key holding an ordered list of rules;
// order in the file is match order. Rules with no keywords or an
// unknown bucket are rejected so a broken file fails loudly at startup
// rather than silently misclassifying.
func LoadRules(path string) ([]CategoryRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "temporal: read rules %s", path)
	}

	var wrapper struct {
		Rules []CategoryRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "temporal: parse rules")
	}
	if len(wrapper.Rules) == 0 {
		return nil, eris.New("temporal: rules file contains no rules")
	}

	for i, rule := range wrapper.Rules {
		if len(rule.Keywords) == 0 {
			return nil, eris.Errorf("temporal: rule %d has no keywords", i)
		}
		if _, ok := validBuckets[rule.Bucket]; !ok {
			return nil, eris.Errorf("temporal: rule %d has unknown bucket %q", i, rule.Bucket)
		}
		if rule.DefaultSubKey == "" && len(rule.SubKeys) == 0 {
			return nil, eris.Errorf("temporal: rule %d selects no sub-key", i)
		}
	}

	return wrapper.Rules, nil
}
