// Package flowguardlog provides the structured logging collaborator
// (spec §6, "Logger: structured records for blocks, rule updates, and
// fatal errors"), backed by sirupsen/logrus as the rest of the retrieval
// pack does for its ambient logging (nearmeng-mango-go's plugin/log
// wraps the same library).
package flowguardlog

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.RWMutex
	log = logrus.New()
)

// SetOutput lets an embedding process redirect engine logs.
func SetOutput(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func get() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Block logs a rejection. Resource and rule are the offending ones.
func Block(resource, ruleKind, origin string, fields logrus.Fields) {
	f := logrus.Fields{"resource": resource, "rule": ruleKind, "origin": origin}
	for k, v := range fields {
		f[k] = v
	}
	get().WithFields(f).Warn("flowguard: request blocked")
}

// RuleUpdate logs a successful rule-table reload.
func RuleUpdate(kind string, count int) {
	get().WithFields(logrus.Fields{"rule_kind": kind, "count": count}).Info("flowguard: rules loaded")
}

// RuleDropped logs a rule rejected at load time for being invalid.
func RuleDropped(kind, reason string, rule fmt_Stringer) {
	get().WithFields(logrus.Fields{"rule_kind": kind, "reason": reason, "rule": rule.String()}).
		Warn("flowguard: dropped invalid rule")
}

// fmt_Stringer avoids importing fmt just for the Stringer interface name.
type fmt_Stringer interface {
	String() string
}

// ErrorEntryFree logs a pairing violation (spec §7, "Pairing errors").
func ErrorEntryFree(contextName, resource string) {
	get().WithFields(logrus.Fields{"context": contextName, "resource": resource}).
		Error("flowguard: ErrorEntryFree, context cleared")
}

// Fatal logs an unexpected internal error recovered at the slot-chain
// boundary (spec §7, "Internal errors" — fail-open, never propagated).
func Fatal(resource string, err interface{}) {
	get().WithFields(logrus.Fields{"resource": resource, "panic": err}).
		Warn("flowguard: internal error recovered, failing open")
}
