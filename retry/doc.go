// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package retry implements a bounded retry policy: a maximum number of
// attempts, a backoff strategy, a classifier deciding which errors are worth
// another attempt and an injectable sleeper so tests run without real delays.
//
//	policy := retry.Policy{
//	    MaxAttempts: 3,
//	    Backoff:     retry.Constant(10 * time.Second),
//	    Retryable:   ai.IsRetryable,
//	}
//	err := policy.Do(ctx, func(ctx context.Context) error {
//	    reply, err = chat.Complete(ctx, messages)
//	    return err
//	})
package retry
