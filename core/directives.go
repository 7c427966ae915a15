package core

import (
	"redirectly/logger"
	"redirectly/models"
)

const (
	// DirectivePriority is the priority every compiled rule is installed with.
	DirectivePriority = 1
	cookieHeader      = "Cookie"
)

// BuildDirectives compiles the enabled rules into filtering directives. IDs
// are assigned 1..n over the enabled rules in list order, so they are only
// stable for a given rule list. When globalEnabled is false no directives are
// produced.
func BuildDirectives(rules []models.Rule, globalEnabled bool) []models.Directive {
	directives := []models.Directive{}
	if !globalEnabled {
		return directives
	}

	id := 0
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		id++

		target := rule.Target
		if rule.Type != models.RuleTypeRedirect {
			target = rule.Source
		}
		regex, substitution := WildcardRuleToDNR(rule.Source, target)

		var action models.Action
		switch rule.Type {
		case models.RuleTypeRedirect:
			action = models.Action{
				Type:     models.ActionRedirect,
				Redirect: &models.Redirect{RegexSubstitution: substitution},
			}
		case models.RuleTypeSetCookie:
			action = models.Action{
				Type: models.ActionModifyHeaders,
				RequestHeaders: []models.HeaderInfo{{
					Header:    cookieHeader,
					Operation: models.HeaderSet,
					Value:     rule.CookieValue,
				}},
			}
		default:
			logger.Warn("BuildDirectives: skipping rule %q with unknown type %q", rule.DisplayTitle(), rule.Type)
			continue
		}

		resourceTypes := make([]models.ResourceType, len(models.AllResourceTypes))
		copy(resourceTypes, models.AllResourceTypes)

		directives = append(directives, models.Directive{
			ID:       id,
			Priority: DirectivePriority,
			Action:   action,
			Condition: models.Condition{
				RegexFilter:              regex,
				IsURLFilterCaseSensitive: false,
				ResourceTypes:            resourceTypes,
			},
		})
	}
	return directives
}
