package preview

// errorTrapScript forwards uncaught errors and promise rejections to the
// embedding page. The parent ignores messages from other origins.
const errorTrapScript = `<script>
(function () {
  function report(message) {
    try {
      window.parent.postMessage({ type: 'previewError', message: String(message) }, '*');
    } catch (e) { /* detached parent */ }
  }
  window.addEventListener('error', function (e) {
    report(e.message || 'Unknown script error');
  });
  window.addEventListener('unhandledrejection', function (e) {
    report((e.reason && (e.reason.message || e.reason)) || 'Unhandled promise rejection');
  });
})();
</script>`

// SandboxAttributes is the iframe sandbox policy for previews: scripts may
// run but stay isolated from the embedding origin.
const SandboxAttributes = "allow-scripts allow-forms allow-popups allow-modals"
