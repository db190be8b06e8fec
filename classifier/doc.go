// Package classifier scores free text against configured intents.
//
// Every intent carries a list of keywords and a list of regular expressions.
// A keyword contributes 1.0 when it occurs in the lower-cased text, a
// pattern contributes 1.5 when it matches anywhere in it; the sum is divided
// by the number of configured signals. The highest normalized score wins,
// ties keep the intent declared first. A winner below the confidence
// threshold is replaced by the default intent while the reported confidence
// stays the winning score.
package classifier
